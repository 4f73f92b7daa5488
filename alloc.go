package buddy

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Alloc reserves a block whose payload holds at least size bytes.
//
// A zero size, or a pool that is nil or not initialized, produces no
// allocation and no error. ErrOutOfCapacity is returned when no block of
// this pool could ever hold size bytes, ErrPoolExhausted when no free block
// is large enough right now. A failed call leaves the free lists untouched.
func (p *Pool) Alloc(size uint64) (Handle, error) {
	if p == nil || p.arena == nil || size == 0 {
		return NilHandle, nil
	}

	requested := uint(MaxK)
	if size <= math.MaxUint64-ControlSize {
		requested = Classify(size + ControlSize)
	}
	if requested > p.order {
		p.counters.OutOfCapacity++
		if ce := p.options.logger.Check(zap.DebugLevel, "allocation exceeds pool capacity"); ce != nil {
			ce.Write(zap.Uint64("size", size), zap.Uint("pool-order", p.order))
		}
		return NilHandle, ErrOutOfCapacity
	}

	// first fit by ascending order
	order := requested
	for order <= p.order && p.lists[order].len == 0 {
		order++
	}
	if order > p.order {
		p.counters.Exhausted++
		if ce := p.options.logger.Check(zap.DebugLevel, "pool exhausted"); ce != nil {
			ce.Write(zap.Uint64("size", size),
				zap.Uint("order", requested),
				zap.Uint64("reserved", p.reserved))
		}
		return NilHandle, ErrPoolExhausted
	}

	offset, c := p.pop(order)
	c.state = StateReserved
	for c.order > requested {
		c.order--
		p.push(offset+uint64(1)<<c.order, &control{order: c.order})
		p.counters.Splits++
	}

	p.reserved += uint64(1) << c.order
	p.counters.Allocs++
	return Handle(offset + ControlSize), nil
}

// Free releases the block of h, merging it with its buddy for as long as the
// buddy is available and of the same order. Free of NilHandle is a no-op.
//
// Free panics with ErrInvalidHandle if h does not name a reserved block of
// the pool, which includes releasing a handle twice.
func (p *Pool) Free(h Handle) {
	if p == nil || h == NilHandle {
		return
	}

	offset, c := p.lookup(h)
	p.reserved -= uint64(1) << c.order
	for c.order < p.order {
		buddy := BuddyOffset(offset, c.order)
		b, ok := p.blocks[buddy]
		if !ok || b.state != StateAvailable || b.order != c.order {
			break
		}
		p.unlink(buddy, b)
		// the lower address survives
		if buddy < offset {
			delete(p.blocks, offset)
			offset, c = buddy, b
		} else {
			delete(p.blocks, buddy)
		}
		c.order++
		p.counters.Merges++
	}

	p.push(offset, c)
	p.counters.Frees++
}

// Bytes returns the payload of h. The slice has length and capacity equal to
// the usable size of the block and is valid until h is freed.
func (p *Pool) Bytes(h Handle) []byte {
	if p == nil || h == NilHandle {
		return nil
	}
	offset, c := p.lookup(h)
	end := offset + uint64(1)<<c.order
	return p.arena[offset+ControlSize : end : end]
}

// Usable returns the number of payload bytes available behind h.
func (p *Pool) Usable(h Handle) uint64 {
	if p == nil || h == NilHandle {
		return 0
	}
	_, c := p.lookup(h)
	return uint64(1)<<c.order - ControlSize
}

// Buddy returns the buddy of b as currently recorded by the pool. A buddy
// offset that holds no block start, such as the buddy of the whole arena, is
// returned with StateUnused and b's order.
func (p *Pool) Buddy(b Block) Block {
	offset := BuddyOffset(b.Offset, b.Order)
	if p == nil {
		return Block{Offset: offset, Order: b.Order, State: StateUnused}
	}
	if c, ok := p.blocks[offset]; ok {
		return Block{Offset: offset, Order: c.order, State: c.state}
	}
	return Block{Offset: offset, Order: b.Order, State: StateUnused}
}

func (p *Pool) lookup(h Handle) (uint64, *control) {
	if p.arena == nil || uint64(h) < ControlSize {
		panic(errors.Wrapf(ErrInvalidHandle, "handle %d", h))
	}
	offset := uint64(h) - ControlSize
	c, ok := p.blocks[offset]
	if !ok {
		panic(errors.Wrapf(ErrInvalidHandle, "no block at offset %d", offset))
	}
	switch c.state {
	case StateReserved:
		return offset, c
	case StateAvailable:
		panic(errors.Wrapf(ErrInvalidHandle, "block at offset %d is not reserved", offset))
	case StateUnused:
		panic(errors.Wrapf(ErrInvalidHandle, "block at offset %d is unused", offset))
	default:
		panic(errors.AssertionFailedf("block at offset %d has state %d", offset, c.state))
	}
}

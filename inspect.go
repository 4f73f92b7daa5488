package buddy

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Block describes one block of the arena.
type Block struct {
	Offset uint64
	Order  uint
	State  State
}

// Size returns the block size in bytes.
func (b Block) Size() uint64 {
	return uint64(1) << b.Order
}

// Stats pool statistics
type Stats struct {
	Order uint
	Size  uint64

	ReservedBytes   uint64
	AvailableBytes  uint64
	ReservedBlocks  int
	AvailableBlocks int

	Allocs        uint64
	Frees         uint64
	Splits        uint64
	Merges        uint64
	Exhausted     uint64
	OutOfCapacity uint64
}

// Stats returns the current statistics of the pool.
func (p *Pool) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	s := p.counters
	s.Order = p.order
	s.Size = p.Size()
	s.ReservedBytes = p.reserved
	s.AvailableBytes = s.Size - p.reserved
	for order := range p.lists {
		s.AvailableBlocks += p.lists[order].len
	}
	s.ReservedBlocks = len(p.blocks) - s.AvailableBlocks
	return s
}

// Blocks returns every block of the arena ordered by offset.
func (p *Pool) Blocks() []Block {
	if p == nil {
		return nil
	}
	blocks := make([]Block, 0, len(p.blocks))
	for offset, c := range p.blocks {
		blocks = append(blocks, Block{Offset: offset, Order: c.order, State: c.state})
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Offset < blocks[j].Offset
	})
	return blocks
}

// FreeList returns the offsets on the free list of order, head first.
func (p *Pool) FreeList(order uint) []uint64 {
	if p == nil || p.arena == nil || order > MaxK {
		return nil
	}
	var offsets []uint64
	for offset := p.lists[order].head; offset != nilOffset; offset = p.blocks[offset].next {
		offsets = append(offsets, offset)
	}
	return offsets
}

// Validate checks the structural invariants of the pool: blocks exactly
// partition the arena, every block is aligned to its size, available blocks
// are linked on the list of their order and no free buddies are left
// unmerged.
func (p *Pool) Validate() error {
	if p == nil {
		return nil
	}
	if p.arena == nil {
		if len(p.blocks) != 0 {
			return errors.Newf("uninitialized pool has %d blocks", len(p.blocks))
		}
		return nil
	}

	var next, reserved uint64
	available := 0
	for _, b := range p.Blocks() {
		if b.Offset != next {
			return errors.Newf("block at offset %d, expected a block at %d", b.Offset, next)
		}
		if b.Order < SmallestK || b.Order > p.order {
			return errors.Newf("block at offset %d has order %d outside [%d, %d]",
				b.Offset, b.Order, SmallestK, p.order)
		}
		if b.Offset&(b.Size()-1) != 0 {
			return errors.Newf("block at offset %d is not aligned to its size %d", b.Offset, b.Size())
		}

		switch b.State {
		case StateAvailable:
			available++
			if b.Order < p.order {
				if buddy := p.Buddy(b); buddy.State == StateAvailable && buddy.Order == b.Order {
					return errors.Newf("free buddies at offsets %d and %d of order %d are not merged",
						b.Offset, buddy.Offset, b.Order)
				}
			}
		case StateReserved:
			reserved += b.Size()
		case StateUnused:
			return errors.Newf("block at offset %d is unused", b.Offset)
		default:
			return errors.AssertionFailedf("block at offset %d has state %d", b.Offset, b.State)
		}
		next = b.Offset + b.Size()
	}
	if next != p.Size() {
		return errors.Newf("blocks cover %d of %d bytes", next, p.Size())
	}
	if reserved != p.reserved {
		return errors.Newf("reserved blocks hold %d bytes, accounted %d", reserved, p.reserved)
	}

	linked := 0
	for order := range p.lists {
		n := 0
		prev := nilOffset
		offset := p.lists[order].head
		for offset != nilOffset {
			c, ok := p.blocks[offset]
			if !ok {
				return errors.Newf("free list %d links missing block %d", order, offset)
			}
			if c.state != StateAvailable || c.order != uint(order) {
				return errors.Newf("free list %d holds %s block of order %d at offset %d",
					order, c.state, c.order, offset)
			}
			if c.prev != prev {
				return errors.Newf("free list %d: block %d links back to %d, expected %d",
					order, offset, c.prev, prev)
			}
			n++
			if n > len(p.blocks) {
				return errors.Newf("free list %d has a cycle", order)
			}
			prev = offset
			offset = c.next
		}
		if n != p.lists[order].len {
			return errors.Newf("free list %d has %d blocks, recorded %d", order, n, p.lists[order].len)
		}
		if n != 0 && uint(order) > p.order {
			return errors.Newf("free list %d above pool order %d is not empty", order, p.order)
		}
		linked += n
	}
	if linked != available {
		return errors.Newf("%d available blocks, %d on free lists", available, linked)
	}
	return nil
}

package buddy

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fagongzi/buddy/region"
	"go.uber.org/zap"
)

// State is the state of a block.
type State uint8

const (
	// StateUnused marks a control record that describes no block.
	StateUnused State = iota
	// StateAvailable marks a block on the free list of its order.
	StateAvailable
	// StateReserved marks a block owned by a caller.
	StateReserved
)

func (s State) String() string {
	switch s {
	case StateUnused:
		return "unused"
	case StateAvailable:
		return "available"
	case StateReserved:
		return "reserved"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Handle is the arena offset of a reserved block's payload.
type Handle uint64

// NilHandle is never returned for a successful allocation.
const NilHandle Handle = 0

const nilOffset = ^uint64(0)

// control is the control record of one block. next and prev link the block
// into the free list of its order and are nilOffset while it is reserved.
type control struct {
	state State
	order uint
	next  uint64
	prev  uint64
}

type freeList struct {
	head uint64
	len  int
}

// Pool is a buddy allocator over one arena of 2^Order() bytes.
//
// The zero value is an uninitialized pool: Init must be called before use.
type Pool struct {
	region region.Region
	arena  []byte
	order  uint
	lists  [MaxK + 1]freeList
	// control records keyed by block offset
	blocks   map[uint64]*control
	reserved uint64
	counters Stats

	options options
}

// New creates a pool whose arena is the smallest power of two holding
// sizeHint bytes, clamped to [2^MinK, 2^(MaxK-1)]. A zero sizeHint selects
// 2^DefaultK bytes.
func New(sizeHint uint64, opts ...Option) (*Pool, error) {
	p := &Pool{}
	for _, opt := range opts {
		opt(&p.options)
	}
	if err := p.Init(sizeHint); err != nil {
		return nil, err
	}
	return p, nil
}

// MustNew is similar to New, but panic if the arena cannot be reserved.
func MustNew(sizeHint uint64, opts ...Option) *Pool {
	p, err := New(sizeHint, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Init reserves the arena and installs one available block covering it.
// Region failures are returned marked with ErrRegion.
func (p *Pool) Init(sizeHint uint64) error {
	if p.arena != nil {
		return ErrPoolInUse
	}
	p.options.adjust()

	order := uint(DefaultK)
	if sizeHint != 0 {
		order = Classify(sizeHint)
	}
	if order < MinK {
		order = MinK
	}
	if order > MaxK-1 {
		order = MaxK - 1
	}

	size := uint64(1) << order
	r, err := p.options.provider.Reserve(size)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "buddy: reserve %d bytes", size), ErrRegion)
	}
	arena := r.Bytes()
	if uint64(len(arena)) != size {
		if err := r.Release(); err != nil {
			p.options.logger.Error("failed to release short region", zap.Error(err))
		}
		return errors.Mark(errors.Newf("buddy: region has %d bytes, want %d", len(arena), size), ErrRegion)
	}

	p.region = r
	p.arena = arena
	p.order = order
	p.blocks = make(map[uint64]*control)
	p.reserved = 0
	p.counters = Stats{}
	for i := range p.lists {
		p.lists[i] = freeList{head: nilOffset}
	}
	p.push(0, &control{order: order})

	p.options.logger.Info("buddy pool created",
		zap.Uint("order", order),
		zap.Uint64("size", size))
	return nil
}

// Destroy releases the arena and clears the pool so that Init may be called
// again. Every handle of the pool becomes invalid.
func (p *Pool) Destroy() error {
	if p == nil || p.region == nil {
		return nil
	}
	if err := p.region.Release(); err != nil {
		return errors.Mark(errors.Wrapf(err, "buddy: release %d bytes", len(p.arena)), ErrRegion)
	}
	p.options.logger.Info("buddy pool destroyed",
		zap.Uint("order", p.order),
		zap.Uint64("allocs", p.counters.Allocs),
		zap.Uint64("frees", p.counters.Frees))

	*p = Pool{options: p.options}
	return nil
}

// Order returns the order of the arena, 0 if the pool is not initialized.
func (p *Pool) Order() uint {
	if p == nil {
		return 0
	}
	return p.order
}

// Size returns the arena size in bytes.
func (p *Pool) Size() uint64 {
	if p == nil {
		return 0
	}
	return uint64(len(p.arena))
}

// push marks the block available and inserts it at the head of the free
// list of its order.
func (p *Pool) push(offset uint64, c *control) {
	l := &p.lists[c.order]
	c.state = StateAvailable
	c.prev = nilOffset
	c.next = l.head
	if l.head != nilOffset {
		p.blocks[l.head].prev = offset
	}
	l.head = offset
	l.len++
	p.blocks[offset] = c
}

func (p *Pool) pop(order uint) (uint64, *control) {
	offset := p.lists[order].head
	c := p.blocks[offset]
	p.unlink(offset, c)
	return offset, c
}

func (p *Pool) unlink(offset uint64, c *control) {
	l := &p.lists[c.order]
	if c.prev == nilOffset {
		l.head = c.next
	} else {
		p.blocks[c.prev].next = c.next
	}
	if c.next != nilOffset {
		p.blocks[c.next].prev = c.prev
	}
	c.next = nilOffset
	c.prev = nilOffset
	l.len--
}

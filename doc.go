// Package buddy implements a fixed-capacity binary buddy allocator over a
// single reserved memory region.
//
// A Pool owns an arena of 2^K bytes. Allocation classifies the request into
// the smallest power-of-two order that holds it plus ControlSize bytes of
// block header, takes the first free block of that order or above, and
// halves it until it matches. Release merges a block with its buddy, the
// block at offset XOR 2^order, for as long as the buddy is free and of the
// same order, then puts the result back on its free list.
//
//	p, err := buddy.New(1 << 20)
//	if err != nil {
//	    return err
//	}
//	defer p.Destroy()
//
//	h, err := p.Alloc(100)
//	if err != nil {
//	    return err // ErrOutOfCapacity or ErrPoolExhausted
//	}
//	copy(p.Bytes(h), data)
//	p.Free(h)
//
// Blocks are addressed by offsets into the arena. Control records live in a
// table beside the arena, never inside user memory, so the arena can be
// inspected with Blocks, FreeList and Validate without aliasing payloads.
//
// A Pool is not safe for concurrent use. Callers sharing a pool must
// serialize access to it.
package buddy

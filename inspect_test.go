package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "unused", StateUnused.String())
	assert.Equal(t, "available", StateAvailable.String())
	assert.Equal(t, "reserved", StateReserved.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestBlocksPartitionArena(t *testing.T) {
	p := newTestPool(t, 20)
	for _, size := range []uint64{10, 300, 5000, 100, 70000} {
		_, err := p.Alloc(size)
		require.NoError(t, err)
	}

	var next uint64
	for _, b := range p.Blocks() {
		assert.Equal(t, next, b.Offset)
		next = b.Offset + b.Size()
	}
	assert.Equal(t, p.Size(), next)
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(p *Pool, h Handle)
	}{
		{
			name: "list length",
			corrupt: func(p *Pool, h Handle) {
				p.lists[9].len++
			},
		},
		{
			name: "unused record",
			corrupt: func(p *Pool, h Handle) {
				p.blocks[uint64(h)-ControlSize].state = StateUnused
			},
		},
		{
			name: "overlap",
			corrupt: func(p *Pool, h Handle) {
				p.blocks[uint64(h)-ControlSize].order = 9
			},
		},
		{
			name: "gap",
			corrupt: func(p *Pool, h Handle) {
				delete(p.blocks, 1<<19)
			},
		},
		{
			name: "unmerged buddies",
			corrupt: func(p *Pool, h Handle) {
				c := p.blocks[uint64(h)-ControlSize]
				p.reserved -= 1 << c.order
				p.push(uint64(h)-ControlSize, c)
			},
		},
		{
			name: "broken back link",
			corrupt: func(p *Pool, h Handle) {
				p.blocks[1<<10].prev = 1 << 11
			},
		},
		{
			name: "accounting",
			corrupt: func(p *Pool, h Handle) {
				p.reserved++
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPool(t, 20)
			h, err := p.Alloc(100)
			require.NoError(t, err)
			require.NoError(t, p.Validate())

			tc.corrupt(p, h)
			assert.Error(t, p.Validate())
		})
	}
}

func TestFreeListOutOfRange(t *testing.T) {
	p := newTestPool(t, 20)
	assert.Nil(t, p.FreeList(MaxK+1))

	var zero Pool
	assert.Nil(t, zero.FreeList(20))
}

package buf

import (
	"testing"

	"github.com/fagongzi/buddy"
	"github.com/fagongzi/buddy/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T) *buddy.Pool {
	p, err := buddy.New(1<<20, buddy.WithRegionProvider(region.Heap()))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, p.Destroy())
	})
	return p
}

func assertPoolEmpty(t *testing.T, p *buddy.Pool) {
	t.Helper()
	require.NoError(t, p.Validate())
	assert.Equal(t, 0, p.Stats().ReservedBlocks)
	assert.Equal(t, 1, p.Stats().AvailableBlocks)
}

func TestAllocate(t *testing.T) {
	allocator := newNonReusableAllocator()
	assert.Equal(t, 10, len(allocator.Allocate(10)))
}

func TestPoolAllocator(t *testing.T) {
	p := newTestPool(t)
	allocator := NewPoolAllocator(p, nil)

	data := allocator.Allocate(100)
	assert.Equal(t, 256-buddy.ControlSize, len(data))
	assert.Equal(t, 1, p.Stats().ReservedBlocks)

	data2 := allocator.Allocate(1000)
	assert.Equal(t, 2048-buddy.ControlSize, len(data2))
	assert.Equal(t, 2, p.Stats().ReservedBlocks)

	allocator.Free(data)
	allocator.Free(data2)
	assertPoolEmpty(t, p)
}

func TestPoolAllocatorFallback(t *testing.T) {
	p := newTestPool(t)
	allocator := NewPoolAllocator(p, nil)

	whole := allocator.Allocate(1<<20 - buddy.ControlSize)
	require.Equal(t, 1, p.Stats().ReservedBlocks)

	// exhausted
	data := allocator.Allocate(100)
	assert.Equal(t, 100, len(data))
	// out of capacity
	big := allocator.Allocate(1 << 21)
	assert.Equal(t, 1<<21, len(big))

	allocator.Free(data)
	allocator.Free(big)
	assert.Equal(t, 1, p.Stats().ReservedBlocks)

	allocator.Free(whole)
	assertPoolEmpty(t, p)
}

func TestPoolAllocatorIgnoresForeignSlices(t *testing.T) {
	p := newTestPool(t)
	allocator := NewPoolAllocator(p, nil)

	assert.Nil(t, allocator.Allocate(0))
	allocator.Free(nil)
	allocator.Free(make([]byte, 10))

	data := allocator.Allocate(100)
	// only the slice returned by Allocate releases the block
	allocator.Free(data[1:])
	assert.Equal(t, 1, p.Stats().ReservedBlocks)

	allocator.Free(data)
	assertPoolEmpty(t, p)
}

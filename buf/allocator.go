package buf

import (
	"github.com/fagongzi/buddy"
	"go.uber.org/zap"
)

// Allocator memory allocation for ByteBuf
type Allocator interface {
	// Allocate allocate a []byte with len(data) >= size, and the returned []byte cannot
	// be expanded in use.
	Allocate(capacity int) []byte
	// Free free the allocated memory
	Free([]byte)
}

type nonReusableAllocator struct {
}

func newNonReusableAllocator() Allocator {
	return &nonReusableAllocator{}
}

func (ma *nonReusableAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}

func (ma *nonReusableAllocator) Free([]byte) {

}

type poolAllocator struct {
	pool    *buddy.Pool
	logger  *zap.Logger
	handles map[*byte]buddy.Handle
}

// NewPoolAllocator returns an Allocator serving memory from a buddy pool. The
// slices it returns span whole blocks, so len(data) is usually larger than
// size. When the pool cannot serve a request the memory comes from the Go
// heap instead. Like the pool, the allocator is not safe for concurrent use.
func NewPoolAllocator(pool *buddy.Pool, logger *zap.Logger) Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &poolAllocator{
		pool:    pool,
		logger:  logger,
		handles: make(map[*byte]buddy.Handle),
	}
}

func (pa *poolAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}

	h, err := pa.pool.Alloc(uint64(size))
	if err != nil || h == buddy.NilHandle {
		pa.logger.Debug("pool allocation failed, fallback to heap",
			zap.Int("size", size),
			zap.Error(err))
		return make([]byte, size)
	}

	data := pa.pool.Bytes(h)
	pa.handles[&data[0]] = h
	return data
}

func (pa *poolAllocator) Free(data []byte) {
	if cap(data) == 0 {
		return
	}

	key := &data[:1][0]
	if h, ok := pa.handles[key]; ok {
		delete(pa.handles, key)
		pa.pool.Free(h)
	}
}

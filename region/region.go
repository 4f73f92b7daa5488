// Package region reserves and releases the contiguous memory that backs a
// buddy pool.
//
// A Provider hands out Regions. The default provider maps anonymous memory
// from the operating system, so the pages of a large arena are only committed
// when they are touched. The heap provider allocates from the Go heap and is
// used on platforms without a mapping primitive and in tests.
package region

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrReleased is returned when a region is released twice.
	ErrReleased = errors.New("region: already released")
	// ErrInvalidSize is returned when a reservation of zero bytes, or of more
	// bytes than the address space can hold, is requested.
	ErrInvalidSize = errors.New("region: invalid size")
)

// Region is a contiguous block of reserved memory.
type Region interface {
	// Bytes returns the whole region. The slice is invalid after Release.
	Bytes() []byte
	// Release returns the memory to where it came from.
	Release() error
}

// Provider reserves regions.
type Provider interface {
	// Reserve returns a zeroed, readable and writable region of exactly size
	// bytes.
	Reserve(size uint64) (Region, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(size uint64) (Region, error)

// Reserve implements Provider.
func (f ProviderFunc) Reserve(size uint64) (Region, error) {
	return f(size)
}

// Default returns the provider used when none is configured.
func Default() Provider {
	return ProviderFunc(reserve)
}

// Heap returns a provider which allocates regions from the Go heap.
func Heap() Provider {
	return ProviderFunc(reserveHeap)
}

func checkSize(size uint64) error {
	if size == 0 || size > uint64(maxInt) {
		return errors.Wrapf(ErrInvalidSize, "reserve %d bytes", size)
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

package buddy

import "math/bits"

const (
	// SmallestK is the order of the smallest block ever handed out.
	SmallestK = 6
	// MinK is the smallest pool order.
	MinK = 20
	// MaxK bounds every order. Classify returns it for unsatisfiable sizes.
	MaxK = 48
	// DefaultK is the pool order used when no size hint is given.
	DefaultK = 30
	// ControlSize is the number of bytes at the head of every block reserved
	// for its control record. Payloads start right after it.
	ControlSize = 32
)

// Classify returns the smallest order in [SmallestK, MaxK) whose block size
// is at least bytes, or MaxK if there is none.
func Classify(bytes uint64) uint {
	if bytes <= 1<<SmallestK {
		return SmallestK
	}
	k := uint(bits.Len64(bytes - 1))
	if k >= MaxK {
		return MaxK
	}
	return k
}

// BuddyOffset returns the offset of the buddy of the block at offset with the
// given order. offset must be a multiple of 2^order.
func BuddyOffset(offset uint64, order uint) uint64 {
	return offset ^ (uint64(1) << order)
}

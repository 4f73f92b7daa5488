package buddy

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfCapacity indicates the request is larger than any block of the
	// pool could ever hold.
	ErrOutOfCapacity = errors.New("buddy: request exceeds pool capacity")

	// ErrPoolExhausted indicates no free block of a sufficient order exists
	// right now.
	ErrPoolExhausted = errors.New("buddy: pool exhausted")

	// ErrRegion marks failures to reserve or release the backing region.
	ErrRegion = errors.New("buddy: backing region failure")

	// ErrPoolInUse indicates Init was called on a pool that owns an arena.
	ErrPoolInUse = errors.New("buddy: pool already initialized")

	// ErrInvalidHandle indicates a handle that does not name a reserved block.
	ErrInvalidHandle = errors.New("buddy: invalid handle")
)

//go:build !unix && !windows

package region

func reserve(size uint64) (Region, error) {
	return reserveHeap(size)
}

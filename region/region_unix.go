//go:build unix

package region

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// A private, anonymous mapping is zero filled and only commits the pages
// that are written.
type mappedRegion struct {
	buf []byte
}

func reserve(size uint64) (Region, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "region_unix: failed to map %d bytes", size)
	}
	return &mappedRegion{buf: b}, nil
}

func (r *mappedRegion) Bytes() []byte {
	return r.buf
}

func (r *mappedRegion) Release() error {
	if r.buf == nil {
		return ErrReleased
	}
	if err := unix.Munmap(r.buf); err != nil {
		return errors.Wrapf(err, "region_unix: failed to unmap %d bytes", len(r.buf))
	}
	r.buf = nil
	return nil
}

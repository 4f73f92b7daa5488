//go:build windows

package region

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

type virtualRegion struct {
	buf  []byte
	addr uintptr
}

func reserve(size uint64) (Region, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, errors.Wrapf(err, "region_windows: failed to reserve %d bytes", size)
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	return &virtualRegion{buf: buf, addr: addr}, nil
}

func (r *virtualRegion) Bytes() []byte {
	return r.buf
}

func (r *virtualRegion) Release() error {
	if r.addr == 0 {
		return ErrReleased
	}
	if err := windows.VirtualFree(r.addr, 0, windows.MEM_RELEASE); err != nil {
		return errors.Wrapf(err, "region_windows: failed to release %d bytes", len(r.buf))
	}
	r.buf = nil
	r.addr = 0
	return nil
}

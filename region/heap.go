package region

type heapRegion struct {
	buf []byte
}

func reserveHeap(size uint64) (Region, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return &heapRegion{buf: make([]byte, size)}, nil
}

func (r *heapRegion) Bytes() []byte {
	return r.buf
}

func (r *heapRegion) Release() error {
	if r.buf == nil {
		return ErrReleased
	}
	r.buf = nil
	return nil
}

package buf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fagongzi/util/hack"
)

const (
	defaultMinGrowSize      = 256
	defaultIOCopyBufferSize = 1024 * 4
)

// Option bytebuf option
type Option func(*ByteBuf)

// WithMemAllocator Set the memory allocator. The memory of the ByteBuf comes from
// alloc and is freed back to it when the ByteBuf grows or is closed.
func WithMemAllocator(alloc Allocator) Option {
	return func(bb *ByteBuf) {
		bb.options.alloc = alloc
	}
}

// WithMinGrowSize set the minimum capacity after a grow.
func WithMinGrowSize(minGrowSize int) Option {
	return func(bb *ByteBuf) {
		bb.options.minGrowSize = minGrowSize
	}
}

// WithIOCopyBufferSize set how much data is moved per call in WriteTo and ReadFrom.
func WithIOCopyBufferSize(value int) Option {
	return func(bb *ByteBuf) {
		bb.options.ioCopyBufferSize = value
	}
}

var (
	_ io.WriterTo   = (*ByteBuf)(nil)
	_ io.Writer     = (*ByteBuf)(nil)
	_ io.Reader     = (*ByteBuf)(nil)
	_ io.ReaderFrom = (*ByteBuf)(nil)
	_ io.ByteReader = (*ByteBuf)(nil)
	_ io.ByteWriter = (*ByteBuf)(nil)
)

// ByteBuf is a reusable buffer that holds an internal []byte and maintains 2 indexes for
// read and write data.
//
// | discardable bytes  |   readable bytes   |   writeable bytes  |
// |                    |                    |                    |
// 0      <=       readerIndex    <=     writerIndex    <=     capacity
type ByteBuf struct {
	buf         []byte
	readerIndex int
	writerIndex int

	options struct {
		alloc            Allocator
		minGrowSize      int
		ioCopyBufferSize int
	}
}

// NewByteBuf create bytebuf with options
func NewByteBuf(capacity int, opts ...Option) *ByteBuf {
	b := &ByteBuf{}
	for _, opt := range opts {
		opt(b)
	}
	b.adjust()
	if capacity > 0 {
		b.buf = b.options.alloc.Allocate(capacity)
	}
	return b
}

func (b *ByteBuf) adjust() {
	if b.options.alloc == nil {
		b.options.alloc = newNonReusableAllocator()
	}
	if b.options.minGrowSize == 0 {
		b.options.minGrowSize = defaultMinGrowSize
	}
	if b.options.ioCopyBufferSize == 0 {
		b.options.ioCopyBufferSize = defaultIOCopyBufferSize
	}
}

// Close frees the memory back to the allocator. The ByteBuf can be used again
// after Close, it allocates on the next write.
func (b *ByteBuf) Close() {
	b.options.alloc.Free(b.buf)
	b.buf = nil
	b.Reset()
}

// Reset reset to reuse.
func (b *ByteBuf) Reset() {
	b.readerIndex = 0
	b.writerIndex = 0
}

// Capacity returns the size of the internal buffer.
func (b *ByteBuf) Capacity() int {
	return len(b.buf)
}

// Readable return the number of bytes that can be read.
func (b *ByteBuf) Readable() int {
	return b.writerIndex - b.readerIndex
}

// Writeable return how many bytes can be written without growing.
func (b *ByteBuf) Writeable() int {
	return len(b.buf) - b.writerIndex
}

// ReadableBytes returns the readable bytes without moving the read index. The
// slice is only valid until the next write.
func (b *ByteBuf) ReadableBytes() []byte {
	return b.buf[b.readerIndex:b.writerIndex]
}

// Peek returns the next n readable bytes without moving the read index.
func (b *ByteBuf) Peek(n int) []byte {
	if n > b.Readable() {
		panic(fmt.Sprintf("peek %d bytes, but readable is %d", n, b.Readable()))
	}
	return b.buf[b.readerIndex : b.readerIndex+n]
}

// Skip skip [readIndex, readIndex+n).
func (b *ByteBuf) Skip(n int) {
	if n > b.Readable() {
		panic(fmt.Sprintf("skip %d bytes, but readable is %d", n, b.Readable()))
	}
	b.readerIndex += n
}

// ReadByte read a byte from buf
func (b *ByteBuf) ReadByte() (byte, error) {
	if b.Readable() == 0 {
		return 0, io.EOF
	}
	v := b.buf[b.readerIndex]
	b.readerIndex++
	return v, nil
}

// ReadBytes copies up to n readable bytes into a new slice.
func (b *ByteBuf) ReadBytes(n int) []byte {
	if n > b.Readable() {
		n = b.Readable()
	}
	if n == 0 {
		return nil
	}
	data := make([]byte, n)
	copy(data, b.buf[b.readerIndex:])
	b.readerIndex += n
	return data
}

// ReadAll read all readable bytes.
func (b *ByteBuf) ReadAll() []byte {
	return b.ReadBytes(b.Readable())
}

// ReadString reads up to n bytes as a string.
func (b *ByteBuf) ReadString(n int) string {
	return hack.SliceToString(b.ReadBytes(n))
}

// ReadUint16 get uint16 value from buf
func (b *ByteBuf) ReadUint16() uint16 {
	return binary.BigEndian.Uint16(b.next(2))
}

// ReadUint32 get uint32 value from buf
func (b *ByteBuf) ReadUint32() uint32 {
	return binary.BigEndian.Uint32(b.next(4))
}

// ReadUint64 get uint64 value from buf
func (b *ByteBuf) ReadUint64() uint64 {
	return binary.BigEndian.Uint64(b.next(8))
}

func (b *ByteBuf) next(n int) []byte {
	if b.Readable() < n {
		panic(fmt.Sprintf("read %d bytes, but readable is %d", n, b.Readable()))
	}
	b.readerIndex += n
	return b.buf[b.readerIndex-n : b.readerIndex]
}

// WriteByte write a byte value into buf.
func (b *ByteBuf) WriteByte(v byte) error {
	b.Grow(1)
	b.buf[b.writerIndex] = v
	b.writerIndex++
	return nil
}

// WriteString write a string value to buf
func (b *ByteBuf) WriteString(v string) {
	b.MustWrite(hack.StringToSlice(v))
}

// WriteUint16 write uint16 into buf
func (b *ByteBuf) WriteUint16(v uint16) {
	b.Grow(2)
	binary.BigEndian.PutUint16(b.buf[b.writerIndex:], v)
	b.writerIndex += 2
}

// WriteUint32 write uint32 into buf
func (b *ByteBuf) WriteUint32(v uint32) {
	b.Grow(4)
	binary.BigEndian.PutUint32(b.buf[b.writerIndex:], v)
	b.writerIndex += 4
}

// WriteUint64 write uint64 into buf
func (b *ByteBuf) WriteUint64(v uint64) {
	b.Grow(8)
	binary.BigEndian.PutUint64(b.buf[b.writerIndex:], v)
	b.writerIndex += 8
}

// MustWrite is similar to Write, but panic if encounter an error.
func (b *ByteBuf) MustWrite(value []byte) {
	if _, err := b.Write(value); err != nil {
		panic(err)
	}
}

// Grow makes room for at least n more bytes. Readable bytes are moved to the
// front first; if that is not enough a buffer of at least twice the capacity
// is allocated and the old one is freed.
func (b *ByteBuf) Grow(n int) {
	if b.Writeable() >= n {
		return
	}

	readable := b.Readable()
	if len(b.buf)-readable >= n {
		copy(b.buf, b.buf[b.readerIndex:b.writerIndex])
		b.readerIndex = 0
		b.writerIndex = readable
		return
	}

	target := readable + n
	if double := 2 * len(b.buf); target < double {
		target = double
	}
	if target < b.options.minGrowSize {
		target = b.options.minGrowSize
	}
	newBuf := b.options.alloc.Allocate(target)
	copy(newBuf, b.buf[b.readerIndex:b.writerIndex])
	b.options.alloc.Free(b.buf)
	b.buf = newBuf
	b.readerIndex = 0
	b.writerIndex = readable
}

// Write implemented io.Writer interface
func (b *ByteBuf) Write(src []byte) (int, error) {
	n := len(src)
	b.Grow(n)
	copy(b.buf[b.writerIndex:], src)
	b.writerIndex += n
	return n, nil
}

// Read implemented io.Reader interface. return n, nil or 0, io.EOF is successful
func (b *ByteBuf) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if b.Readable() == 0 {
		return 0, io.EOF
	}
	n := copy(dst, b.buf[b.readerIndex:b.writerIndex])
	b.readerIndex += n
	return n, nil
}

// WriteTo implemented io.WriterTo interface, writing at most
// ioCopyBufferSize bytes per call to dst.
func (b *ByteBuf) WriteTo(dst io.Writer) (int64, error) {
	var written int64
	for b.Readable() > 0 {
		to := b.readerIndex + b.options.ioCopyBufferSize
		if to > b.writerIndex {
			to = b.writerIndex
		}
		n, err := dst.Write(b.buf[b.readerIndex:to])
		if n < 0 {
			panic("invalid write")
		}
		b.readerIndex += n
		written += int64(n)
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadFrom implemented io.ReaderFrom interface, reading until io.EOF.
func (b *ByteBuf) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	for {
		b.Grow(b.options.ioCopyBufferSize)
		m, err := r.Read(b.buf[b.writerIndex:])
		if m < 0 {
			panic("bug: negative Read")
		}
		b.writerIndex += m
		n += int64(m)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}

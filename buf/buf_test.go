package buf

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fagongzi/buddy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	buf := NewByteBuf(32)
	n, err := buf.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, buf.Readable())
	assert.Equal(t, 27, buf.Writeable())

	v, err := buf.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte('h'), v)
	assert.Equal(t, []byte("el"), buf.Peek(2))
	assert.Equal(t, "ell", buf.ReadString(3))

	dst := make([]byte, 10)
	n, err = buf.Read(dst)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte('o'), dst[0])

	_, err = buf.ReadByte()
	assert.Equal(t, io.EOF, err)
	_, err = buf.Read(dst)
	assert.Equal(t, io.EOF, err)
	n, err = buf.Read(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIntegers(t *testing.T) {
	buf := NewByteBuf(4)
	buf.WriteUint16(0x0102)
	buf.WriteUint32(0x03040506)
	buf.WriteUint64(0x0708090a0b0c0d0e)
	assert.NoError(t, buf.WriteByte(0x0f))

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, buf.ReadableBytes())
	assert.Equal(t, uint16(0x0102), buf.ReadUint16())
	assert.Equal(t, uint32(0x03040506), buf.ReadUint32())
	assert.Equal(t, uint64(0x0708090a0b0c0d0e), buf.ReadUint64())
	assert.Panics(t, func() { buf.ReadUint16() })
	assert.Panics(t, func() { buf.Skip(2) })
	assert.Panics(t, func() { buf.Peek(2) })
	buf.Skip(1)
	assert.Equal(t, 0, buf.Readable())
}

func TestReadBytes(t *testing.T) {
	buf := NewByteBuf(8)
	buf.WriteString("hello world")
	assert.Equal(t, []byte("hello"), buf.ReadBytes(5))
	assert.Equal(t, []byte(" world"), buf.ReadAll())
	assert.Nil(t, buf.ReadBytes(5))
}

func TestGrow(t *testing.T) {
	buf := NewByteBuf(256)
	data := make([]byte, 257)
	_, err := buf.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, 512, buf.Capacity())

	buf = NewByteBuf(0, WithMinGrowSize(64))
	assert.NoError(t, buf.WriteByte(1))
	assert.Equal(t, 64, buf.Capacity())
}

func TestGrowCompacts(t *testing.T) {
	buf := NewByteBuf(16)
	buf.WriteString("0123456789abcdef")
	buf.Skip(10)

	buf.WriteString("ghij")
	assert.Equal(t, 16, buf.Capacity())
	assert.Equal(t, "abcdefghij", string(buf.ReadableBytes()))
}

func TestWriteTo(t *testing.T) {
	buf := NewByteBuf(8, WithIOCopyBufferSize(3))
	buf.WriteString("hello world")

	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "hello world", out.String())
	assert.Equal(t, 0, buf.Readable())

	n, err = buf.WriteTo(&out)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestReadFrom(t *testing.T) {
	buf := NewByteBuf(4, WithIOCopyBufferSize(4))
	src := strings.Repeat("buddy", 100)
	n, err := buf.ReadFrom(strings.NewReader(src))
	assert.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, string(buf.ReadAll()))
}

func TestPoolBackedByteBuf(t *testing.T) {
	p := newTestPool(t)
	buf := NewByteBuf(100, WithMemAllocator(NewPoolAllocator(p, nil)))
	assert.Equal(t, 256-buddy.ControlSize, buf.Capacity())

	payload := bytes.Repeat([]byte("0123456789"), 100)
	buf.MustWrite(payload)
	assert.Equal(t, 1, p.Stats().ReservedBlocks)
	assert.Equal(t, 2048-buddy.ControlSize, buf.Capacity())
	assert.Equal(t, payload, buf.ReadAll())

	buf.Close()
	assertPoolEmpty(t, p)

	// reusable after close
	buf.WriteString("again")
	assert.Equal(t, "again", string(buf.ReadAll()))
	buf.Close()
	assertPoolEmpty(t, p)
}

func TestManyPoolBackedByteBufs(t *testing.T) {
	p := newTestPool(t)
	allocator := NewPoolAllocator(p, nil)

	var bufs []*ByteBuf
	for i := 0; i < 64; i++ {
		b := NewByteBuf(64, WithMemAllocator(allocator))
		b.WriteUint64(uint64(i))
		bufs = append(bufs, b)
	}
	require.NoError(t, p.Validate())

	for i, b := range bufs {
		assert.Equal(t, uint64(i), b.ReadUint64())
		b.Close()
	}
	assertPoolEmpty(t, p)
}

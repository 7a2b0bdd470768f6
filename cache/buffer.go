package cache

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/ifcgo/internal/conv"
)

// buffer is an append-only encoder and bounds-checked decoder for section
// payloads. The first failure sticks; later calls are no-ops.
type buffer struct {
	buf []byte
	pos int
	err error
}

func newBuffer(b []byte) *buffer {
	return &buffer{buf: b}
}

func (p *buffer) writeUint8(v uint8) {
	p.buf = append(p.buf, v)
}

func (p *buffer) writeUint16(v uint16) {
	p.buf = binary.LittleEndian.AppendUint16(p.buf, v)
}

func (p *buffer) writeUint32(v uint32) {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
}

func (p *buffer) writeUint64(v uint64) {
	p.buf = binary.LittleEndian.AppendUint64(p.buf, v)
}

func (p *buffer) writeFloat32(v float32) {
	p.writeUint32(math.Float32bits(v))
}

func (p *buffer) writeFloat64(v float64) {
	p.writeUint64(math.Float64bits(v))
}

func (p *buffer) writeBool(v bool) {
	if v {
		p.writeUint8(1)
	} else {
		p.writeUint8(0)
	}
}

func (p *buffer) writeLen(n int) {
	if p.err != nil {
		return
	}
	v, err := conv.IntToUint32(n)
	if err != nil {
		p.err = fmt.Errorf("cache: length exceeds format limit: %w", err)
		return
	}
	p.writeUint32(v)
}

func (p *buffer) writeBytes(b []byte) {
	p.writeLen(len(b))
	p.buf = append(p.buf, b...)
}

func (p *buffer) writeString(s string) {
	p.writeLen(len(s))
	p.buf = append(p.buf, s...)
}

func (p *buffer) writeUint32s(vs []uint32) {
	p.writeLen(len(vs))
	for _, v := range vs {
		p.writeUint32(v)
	}
}

func (p *buffer) writeUint16s(vs []uint16) {
	p.writeLen(len(vs))
	for _, v := range vs {
		p.writeUint16(v)
	}
}

func (p *buffer) writeFloat32s(vs []float32) {
	p.writeLen(len(vs))
	for _, v := range vs {
		p.writeFloat32(v)
	}
}

func (p *buffer) take(n int) []byte {
	if p.err != nil {
		return nil
	}
	if n < 0 || p.pos+n > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return nil
	}
	b := p.buf[p.pos : p.pos+n]
	p.pos += n
	return b
}

func (p *buffer) readUint8() uint8 {
	b := p.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (p *buffer) readUint16() uint16 {
	b := p.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (p *buffer) readUint32() uint32 {
	b := p.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *buffer) readUint64() uint64 {
	b := p.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (p *buffer) readFloat32() float32 { return math.Float32frombits(p.readUint32()) }

func (p *buffer) readFloat64() float64 { return math.Float64frombits(p.readUint64()) }

func (p *buffer) readBool() bool { return p.readUint8() != 0 }

// readLen reads a length prefix for elements of the given size and rejects
// lengths that cannot fit in the remaining payload.
func (p *buffer) readLen(elemSize int) int {
	n := int(p.readUint32())
	if p.err != nil {
		return 0
	}
	if elemSize > 0 && n > (len(p.buf)-p.pos)/elemSize {
		p.err = io.ErrUnexpectedEOF
		return 0
	}
	return n
}

func (p *buffer) readBytes() []byte {
	n := p.readLen(1)
	b := p.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (p *buffer) readString() string {
	n := p.readLen(1)
	return string(p.take(n))
}

func (p *buffer) readUint32s() []uint32 {
	n := p.readLen(4)
	out := make([]uint32, n)
	for i := range out {
		out[i] = p.readUint32()
	}
	return out
}

func (p *buffer) readUint16s() []uint16 {
	n := p.readLen(2)
	out := make([]uint16, n)
	for i := range out {
		out[i] = p.readUint16()
	}
	return out
}

func (p *buffer) readFloat32s() []float32 {
	n := p.readLen(4)
	out := make([]float32, n)
	for i := range out {
		out[i] = p.readFloat32()
	}
	return out
}

// done reports the sticky error, or an error if the payload has trailing bytes.
func (p *buffer) done() error {
	if p.err != nil {
		return p.err
	}
	if p.pos != len(p.buf) {
		return fmt.Errorf("%d trailing bytes", len(p.buf)-p.pos)
	}
	return nil
}

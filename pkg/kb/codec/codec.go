// Package codec implements the fixed little-endian binary encodings shared
// by every on-disk store in the knowledge base: unsigned 32/64-bit
// integers, 32-bit floats, and length-prefixed UTF-8 strings.
//
// decode(encode(x)) == x for every type here, and len(encode(x)) is
// deterministic for a given x — callers rely on both to size buffers and
// to round-trip axioms through the append-only stores.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer accumulates a little-endian encoded record.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated bytes. The returned slice aliases the
// Writer's internal buffer and must not be mutated by the caller.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// PutU8 appends a single byte.
func (w *Writer) PutU8(v uint8) {
	w.buf = append(w.buf, v)
}

// PutU16 appends a little-endian uint16.
func (w *Writer) PutU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutU32 appends a little-endian uint32.
func (w *Writer) PutU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutU64 appends a little-endian uint64.
func (w *Writer) PutU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutF32 appends a little-endian float32.
func (w *Writer) PutF32(v float32) {
	w.PutU32(math.Float32bits(v))
}

// PutBytes appends raw bytes with no length prefix.
func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutString appends a u32 length prefix followed by the UTF-8 bytes of s.
func (w *Writer) PutString(s string) {
	w.PutU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Reader sequentially decodes a byte slice written by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential decoding. b is not copied.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Pos returns the current read offset into the underlying buffer.
func (r *Reader) Pos() int { return r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("codec: short buffer: need %d, have %d", n, r.Remaining())
	}
	return nil
}

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// F32 reads a little-endian float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Bytes reads n raw bytes. The returned slice aliases the Reader's buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// String reads a u32 length prefix followed by that many UTF-8 bytes.
func (r *Reader) String() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeU64List encodes a list of uint64 as count:u64 followed by
// count x u64 — the format used by every KAS inverted-index value.
func EncodeU64List(ids []uint64) []byte {
	w := NewWriter()
	w.PutU64(uint64(len(ids)))
	for _, id := range ids {
		w.PutU64(id)
	}
	return w.Bytes()
}

// DecodeU64List decodes the format written by EncodeU64List.
func DecodeU64List(b []byte) ([]uint64, error) {
	r := NewReader(b)
	n, err := r.U64()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.U64()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeStringList encodes a list of strings as count:u64 followed by
// count length-prefixed strings.
func EncodeStringList(ss []string) []byte {
	w := NewWriter()
	w.PutU64(uint64(len(ss)))
	for _, s := range ss {
		w.PutString(s)
	}
	return w.Bytes()
}

// DecodeStringList decodes the format written by EncodeStringList.
func DecodeStringList(b []byte) ([]string, error) {
	r := NewReader(b)
	n, err := r.U64()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

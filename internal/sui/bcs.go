package sui

import (
	"bytes"
	"encoding/binary"
)

// bcsWriter encodes values in Binary Canonical Serialization.
type bcsWriter struct {
	buf bytes.Buffer
}

func (w *bcsWriter) uleb128(v uint64) {
	for v >= 0x80 {
		w.buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	w.buf.WriteByte(byte(v))
}

func (w *bcsWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *bcsWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) boolean(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

func (w *bcsWriter) fixed(b []byte) {
	w.buf.Write(b)
}

// bytesVec writes a length-prefixed vector<u8>.
func (w *bcsWriter) bytesVec(b []byte) {
	w.uleb128(uint64(len(b)))
	w.buf.Write(b)
}

func (w *bcsWriter) str(s string) {
	w.bytesVec([]byte(s))
}

func (w *bcsWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// EncodeU64 returns the BCS bytes of a u64, for pure arguments.
func EncodeU64(v uint64) []byte {
	var w bcsWriter
	w.u64(v)
	return w.Bytes()
}

package core

import (
	"encoding/binary"
	"fmt"
)

// Records use a fixed little-endian layout: a one-byte type tag, the
// kind-specific fields at fixed offsets, a reserved block for future
// fields, and the disambiguation byte last. Field order and widths are
// the compatibility surface; nothing here is self-describing.

type recordWriter struct {
	buf []byte
}

func newRecordWriter(size int) *recordWriter {
	return &recordWriter{buf: make([]byte, 0, size)}
}

func (w *recordWriter) writeType(t AccountType) {
	w.buf = append(w.buf, byte(t))
}

func (w *recordWriter) writeU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *recordWriter) writeU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *recordWriter) writePubkey(p Pubkey) {
	w.buf = append(w.buf, p[:]...)
}

func (w *recordWriter) writeReserved(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

func (w *recordWriter) bytes() []byte {
	return w.buf
}

type recordReader struct {
	data []byte
	off  int
}

func newRecordReader(data []byte) *recordReader {
	return &recordReader{data: data}
}

func (r *recordReader) remaining() int {
	return len(r.data) - r.off
}

// readType consumes the leading tag and checks it against the reader's
// expected record kind.
func (r *recordReader) readType(expected AccountType) error {
	if r.remaining() < 1 {
		return fmt.Errorf("missing type tag: %w", ErrCorruptRecord)
	}
	got := AccountType(r.data[r.off])
	r.off++
	if got != expected {
		return fmt.Errorf("expected %s, got %s: %w", expected, got, ErrTypeMismatch)
	}
	return nil
}

func (r *recordReader) readU8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("truncated u8: %w", ErrCorruptRecord)
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *recordReader) readU64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, fmt.Errorf("truncated u64: %w", ErrCorruptRecord)
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *recordReader) readPubkey() (Pubkey, error) {
	if r.remaining() < PubkeyLen {
		return Pubkey{}, fmt.Errorf("truncated pubkey: %w", ErrCorruptRecord)
	}
	var p Pubkey
	copy(p[:], r.data[r.off:])
	r.off += PubkeyLen
	return p, nil
}

func (r *recordReader) skipReserved(n int) error {
	if r.remaining() < n {
		return fmt.Errorf("truncated reserved block: %w", ErrCorruptRecord)
	}
	r.off += n
	return nil
}

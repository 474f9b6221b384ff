package nodestore

import "encoding/binary"

//============================================= Varint & Delta Codec
//
// Primitive integer codecs: zig-zag signed varint up to 64-bit, and delta varint of a
// target key against a base key (§4.2). Every operation has a stream-style entry point
// (sink/source, a growable []byte and a cursor); every decode also has a random-access
// entry point (segment + offset) that decodes without advancing any cursor. Varint and
// delta writes are stream-style only; in-place rewrites encode into a sink and copy the
// bytes onto the page (Record.go). This mirrors the teacher's
// split between sequential mmap writes (Serialize.go's append-only sNode building) and
// direct-offset reads (Node.go's ReadINodeFromMemMap indexing straight into the mmap).

// maxVarintLen32/64 bound the continuation-byte count a well-formed varint can have.
const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

// sink is an append-only byte buffer, the stream-style write target.
type sink struct {
	buf []byte
}

func newSink() *sink { return &sink{} }

func (s *sink) Bytes() []byte { return s.buf }

func (s *sink) writeByte(b byte) { s.buf = append(s.buf, b) }

func (s *sink) writeBytes(b []byte) { s.buf = append(s.buf, b...) }

// source is a read cursor over a byte slice, the stream-style read origin.
type source struct {
	buf []byte
	pos int
}

func newSource(buf []byte) *source { return &source{buf: buf} }

func (r *source) readByte() (byte, bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	b := r.buf[r.pos]
	r.pos++
	return b, true
}

func (r *source) offset() int64 { return int64(r.pos) }

// zigZag32 maps a signed i32 onto an unsigned range so small-magnitude negatives stay
// small after varint encoding: (n << 1) ^ (n >> 31).
func zigZag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func unZigZag32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

// zigZag64 is the 64-bit counterpart: (n << 1) ^ (n >> 63).
func zigZag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func unZigZag64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

//--------------------------------------------- stream-style entry points

// writeSigned zig-zag + base-128 varint encodes a signed 32-bit integer into sink,
// returning the number of bytes written (§4.2 writeSigned).
func writeSigned(s *sink, v int32) int {
	u := zigZag32(v)
	start := len(s.buf)
	for u >= 0x80 {
		s.writeByte(byte(u) | 0x80)
		u >>= 7
	}
	s.writeByte(byte(u))
	return len(s.buf) - start
}

// writeSignedLong is the 64-bit counterpart (§4.2 writeSignedLong).
func writeSignedLong(s *sink, v int64) int {
	u := zigZag64(v)
	start := len(s.buf)
	for u >= 0x80 {
		s.writeByte(byte(u) | 0x80)
		u >>= 7
	}
	s.writeByte(byte(u))
	return len(s.buf) - start
}

// decodeSigned is the inverse of writeSigned (§4.2 decodeSigned). Overflow past
// maxVarintLen32 continuation bytes fails with VarintOverflow.
func decodeSigned(r *source) (int32, error) {
	var u uint32
	var shift uint
	for i := 0; ; i++ {
		if i >= maxVarintLen32 {
			return 0, NewVarintOverflow(r.offset())
		}
		b, ok := r.readByte()
		if !ok {
			return 0, NewTruncatedRecord(r.offset(), "svarint")
		}
		u |= uint32(b&0x7F) << shift
		if b < 0x80 {
			break
		}
		shift += 7
	}
	return unZigZag32(u), nil
}

// decodeSignedLong is the 64-bit counterpart (§4.2 decodeSignedLong).
func decodeSignedLong(r *source) (int64, error) {
	var u uint64
	var shift uint
	for i := 0; ; i++ {
		if i >= maxVarintLen64 {
			return 0, NewVarintOverflow(r.offset())
		}
		b, ok := r.readByte()
		if !ok {
			return 0, NewTruncatedRecord(r.offset(), "svarlong")
		}
		u |= uint64(b&0x7F) << shift
		if b < 0x80 {
			break
		}
		shift += 7
	}
	return unZigZag64(u), nil
}

// writeDelta encodes target-base as a signed varlong (§4.2 writeDelta). Per invariant 5,
// base MUST be the record's own nodeKey for both encode and decode of the same record.
func writeDelta(s *sink, target, base int64) int {
	return writeSignedLong(s, target-base)
}

// decodeDelta reads a signed varlong and adds base (§4.2 decodeDelta).
func decodeDelta(r *source, base int64) (int64, error) {
	d, err := decodeSignedLong(r)
	if err != nil {
		return 0, err
	}
	return d + base, nil
}

//--------------------------------------------- width prediction

// computeSignedEncodedWidth predicts the byte width writeSigned would produce, without
// writing, so a caller can decide whether an in-place field update is legal (§4.2,
// invariant 6).
func computeSignedEncodedWidth(v int32) int {
	u := zigZag32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

// computeSignedLongEncodedWidth is the 64-bit counterpart.
func computeSignedLongEncodedWidth(v int64) int {
	u := zigZag64(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

// computeDeltaEncodedWidth predicts the width of writeDelta(target, base) without writing.
func computeDeltaEncodedWidth(target, base int64) int {
	return computeSignedLongEncodedWidth(target - base)
}

//--------------------------------------------- random-access entry points

// readSignedVarintWidth returns the number of bytes the svarint encoding starting at
// offset occupies in segment, without decoding the value, so a caller can walk fields in
// the data region or overwrite one in place.
func readSignedVarintWidth(segment []byte, offset int) (int, error) {
	for i := 0; i < maxVarintLen32; i++ {
		if offset+i >= len(segment) {
			return 0, NewTruncatedRecord(int64(offset), "svarint-width")
		}
		if segment[offset+i] < 0x80 {
			return i + 1, nil
		}
	}
	return 0, NewVarintOverflow(int64(offset))
}

// readDeltaEncodedWidth is the equivalent for a delta-encoded (svarlong) field.
func readDeltaEncodedWidth(segment []byte, offset int) (int, error) {
	for i := 0; i < maxVarintLen64; i++ {
		if offset+i >= len(segment) {
			return 0, NewTruncatedRecord(int64(offset), "delta-width")
		}
		if segment[offset+i] < 0x80 {
			return i + 1, nil
		}
	}
	return 0, NewVarintOverflow(int64(offset))
}

// decodeSignedAt decodes a signed 32-bit varint directly out of segment at offset,
// without advancing any cursor (the random-access counterpart of decodeSigned).
func decodeSignedAt(segment []byte, offset int) (int32, error) {
	r := &source{buf: segment, pos: offset}
	return decodeSigned(r)
}

// decodeSignedLongAt is the 64-bit counterpart of decodeSignedAt.
func decodeSignedLongAt(segment []byte, offset int) (int64, error) {
	r := &source{buf: segment, pos: offset}
	return decodeSignedLong(r)
}

// decodeDeltaAt decodes a delta-encoded field directly out of segment at offset.
func decodeDeltaAt(segment []byte, offset int, base int64) (int64, error) {
	r := &source{buf: segment, pos: offset}
	return decodeDelta(r, base)
}

//--------------------------------------------- fixed eight-byte longs

// writeLong writes a fixed eight-byte little-endian long into sink, used for hash and
// for hot counters that MUST be in-place updatable regardless of magnitude (§4.2
// writeLong).
func writeLong(s *sink, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	s.writeBytes(buf[:])
}

// writeLongAt writes a fixed eight-byte little-endian long directly into segment at
// offset (the in-place counterpart of writeLong). Bound proxy setters do not call it;
// they write through PageMemory.WriteAt (Record.go's writeLongInPlace).
func writeLongAt(segment []byte, offset int, v uint64) {
	binary.LittleEndian.PutUint64(segment[offset:offset+8], v)
}

// readLong reads a fixed eight-byte long out of segment at offset (§4.2 readLong).
func readLong(segment []byte, offset int) (uint64, error) {
	if offset+8 > len(segment) {
		return 0, NewTruncatedRecord(int64(offset), "long")
	}
	return binary.LittleEndian.Uint64(segment[offset : offset+8]), nil
}

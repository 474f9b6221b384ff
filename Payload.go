package nodestore

import "math"

//============================================= Payload encodings
//
// Boolean, null, number, and string payload bodies (§4.3 "Payload encodings"). Numbers
// carry a one-byte type tag ahead of their body so the narrowest faithful representation
// is chosen at encode time; strings carry a compression flag and varint length.

// NumberTypeTag enumerates the 0..5 tags a number payload's first byte may hold.
type NumberTypeTag byte

const (
	NumberTypeI32 NumberTypeTag = iota
	NumberTypeI64
	NumberTypeF32
	NumberTypeF64
	NumberTypeBigDecimal
	NumberTypeBigInteger
)

// NumberValue is the decoded/owned form of a number payload (§4.3 Payload encodings,
// number). Exactly one of the fields is meaningful, selected by Tag.
type NumberValue struct {
	Tag               NumberTypeTag
	I32               int32
	I64               int64
	F32               float32
	F64               float64
	BigDecimalScale   int32
	BigDecimalUnscaled []byte
	BigIntegerBytes   []byte
}

// encodeNumberPayload writes [typeTag:1][body] choosing the narrowest faithful tag: an
// i32-representable integer gets NumberTypeI32, otherwise NumberTypeI64, and so on for
// the caller-selected float/bigdecimal/biginteger forms (the caller, i.e. the proxy
// setter, decides int vs float vs big; this function just serializes whatever NumberValue
// already carries).
func encodeNumberPayload(s *sink, v NumberValue) {
	s.writeByte(byte(v.Tag))
	switch v.Tag {
	case NumberTypeI32:
		writeSigned(s, v.I32)
	case NumberTypeI64:
		writeSignedLong(s, v.I64)
	case NumberTypeF32:
		var buf [4]byte
		bits := math.Float32bits(v.F32)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
		s.writeBytes(buf[:])
	case NumberTypeF64:
		var buf [8]byte
		bits := math.Float64bits(v.F64)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		s.writeBytes(buf[:])
	case NumberTypeBigDecimal:
		writeSigned(s, v.BigDecimalScale)
		writeSigned(s, int32(len(v.BigDecimalUnscaled)))
		s.writeBytes(v.BigDecimalUnscaled)
	case NumberTypeBigInteger:
		writeSigned(s, int32(len(v.BigIntegerBytes)))
		s.writeBytes(v.BigIntegerBytes)
	}
}

// NarrowestNumber picks the narrowest faithful NumberValue for an int64, matching
// "Choose the narrowest faithful tag when encoding" (§4.3).
func NarrowestNumber(n int64) NumberValue {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return NumberValue{Tag: NumberTypeI32, I32: int32(n)}
	}
	return NumberValue{Tag: NumberTypeI64, I64: n}
}

// decodeNumberPayload reads [typeTag:1][body] from r, failing with UnknownNumberType for
// any tag outside 0..5 (§4.1/§4.3).
func decodeNumberPayload(r *source) (NumberValue, error) {
	tagByte, ok := r.readByte()
	if !ok {
		return NumberValue{}, NewTruncatedRecord(r.offset(), "number-tag")
	}
	tag := NumberTypeTag(tagByte)

	switch tag {
	case NumberTypeI32:
		v, err := decodeSigned(r)
		return NumberValue{Tag: tag, I32: v}, err
	case NumberTypeI64:
		v, err := decodeSignedLong(r)
		return NumberValue{Tag: tag, I64: v}, err
	case NumberTypeF32:
		var raw uint32
		for i := 0; i < 4; i++ {
			b, ok := r.readByte()
			if !ok {
				return NumberValue{}, NewTruncatedRecord(r.offset(), "f32")
			}
			raw |= uint32(b) << (8 * i)
		}
		return NumberValue{Tag: tag, F32: math.Float32frombits(raw)}, nil
	case NumberTypeF64:
		var raw uint64
		for i := 0; i < 8; i++ {
			b, ok := r.readByte()
			if !ok {
				return NumberValue{}, NewTruncatedRecord(r.offset(), "f64")
			}
			raw |= uint64(b) << (8 * i)
		}
		return NumberValue{Tag: tag, F64: math.Float64frombits(raw)}, nil
	case NumberTypeBigDecimal:
		scale, err := decodeSigned(r)
		if err != nil {
			return NumberValue{}, err
		}
		length, err := decodeSigned(r)
		if err != nil {
			return NumberValue{}, err
		}
		unscaled := make([]byte, length)
		for i := range unscaled {
			b, ok := r.readByte()
			if !ok {
				return NumberValue{}, NewTruncatedRecord(r.offset(), "bigdecimal")
			}
			unscaled[i] = b
		}
		return NumberValue{Tag: tag, BigDecimalScale: scale, BigDecimalUnscaled: unscaled}, nil
	case NumberTypeBigInteger:
		length, err := decodeSigned(r)
		if err != nil {
			return NumberValue{}, err
		}
		bs := make([]byte, length)
		for i := range bs {
			b, ok := r.readByte()
			if !ok {
				return NumberValue{}, NewTruncatedRecord(r.offset(), "biginteger")
			}
			bs[i] = b
		}
		return NumberValue{Tag: tag, BigIntegerBytes: bs}, nil
	default:
		return NumberValue{}, NewUnknownNumberType(tagByte)
	}
}

// encodedNumberPayloadWidth returns the byte width encodeNumberPayload would produce,
// used to decide whether an in-place value rewrite is legal (it almost never is, since
// value mutations always force Owned per §4.5, but the width is still useful for hash
// input sizing and for tests that assert width invariants).
func encodedNumberPayloadWidth(v NumberValue) int {
	s := newSink()
	encodeNumberPayload(s, v)
	return len(s.Bytes())
}

// StringPayload is the decoded/owned form of a string payload (§4.3 Payload encodings,
// string). Compressed bytes are FSST-encoded; the symbol table is owned by the enclosing
// page, referenced separately by the proxy when bound (see Fsst.go).
type StringPayload struct {
	Compressed bool
	Bytes      []byte
}

// encodeStringPayload writes [isCompressed:1][length:s][bytes].
func encodeStringPayload(s *sink, v StringPayload) {
	if v.Compressed {
		s.writeByte(1)
	} else {
		s.writeByte(0)
	}
	writeSigned(s, int32(len(v.Bytes)))
	s.writeBytes(v.Bytes)
}

func decodeStringPayload(r *source) (StringPayload, error) {
	flag, ok := r.readByte()
	if !ok {
		return StringPayload{}, NewTruncatedRecord(r.offset(), "string-flag")
	}
	length, err := decodeSigned(r)
	if err != nil {
		return StringPayload{}, err
	}
	bs := make([]byte, length)
	for i := range bs {
		b, ok := r.readByte()
		if !ok {
			return StringPayload{}, NewTruncatedRecord(r.offset(), "string-bytes")
		}
		bs[i] = b
	}
	return StringPayload{Compressed: flag == 1, Bytes: bs}, nil
}

// encodeBooleanPayload writes a single 0x00/0x01 byte.
func encodeBooleanPayload(s *sink, v bool) {
	if v {
		s.writeByte(1)
	} else {
		s.writeByte(0)
	}
}

func decodeBooleanPayload(r *source) (bool, error) {
	b, ok := r.readByte()
	if !ok {
		return false, NewTruncatedRecord(r.offset(), "boolean")
	}
	return b == 1, nil
}

// null payload is empty: the kind alone conveys the value, nothing to encode/decode.

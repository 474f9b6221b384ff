package nodestore

//============================================= Kind Registry dispatch
//
// SerializeNode/DeserializeNode are the single entry points a page cache or cursor layer
// calls; everything upstream of here is kind-agnostic (§4.1 "Dispatch is by the tag
// byte"). Size-prefix and padding helpers implement §4.4's page-alignment framing: each
// record is preceded by a 4-byte little-endian size and 3 reserved/pad bytes, and the
// record itself is padded so the next record starts 8-byte aligned.

const (
	recordHeaderSize = 4 + 3 // [size:4][pad:3]
	alignment        = 8
)

// SerializeNode writes tag(kind) + the kind's record body into sink and returns the total
// bytes written, not including the size-prefix header (callers needing the framed form
// should use WriteFramedNode).
func SerializeNode(p NodeProxy, s *sink) int {
	return p.WriteTo(s)
}

// WriteFramedNode writes [size:4][pad:3][record][padding] so records can be walked
// sequentially by size alone, padded to keep the following record 8-byte aligned
// (§4.4 "Size prefix and alignment helpers").
func WriteFramedNode(p NodeProxy, s *sink) int {
	start := len(s.buf)
	s.writeBytes([]byte{0, 0, 0, 0, 0, 0, 0}) // placeholder header, back-patched below
	bodyStart := len(s.buf)

	body := newSink()
	n := p.WriteTo(body)
	s.writeBytes(body.Bytes())

	padLen := paddingFor(n)
	if padLen > 0 {
		s.writeBytes(make([]byte, padLen))
	}

	writeUint32LE(s.buf[start:start+4], uint32(n))
	_ = bodyStart
	return len(s.buf) - start
}

// paddingFor returns the number of zero bytes needed after a record of length n so the
// whole frame ([size:4][pad:3][record][padding]) is a multiple of 8 bytes, keeping the
// next frame 8-byte aligned relative to this frame's start.
func paddingFor(n int) int {
	rem := (recordHeaderSize + n) % alignment
	if rem == 0 {
		return 0
	}
	return alignment - rem
}

func writeUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// ReadFramedNode reads one [size:4][pad:3][record][padding] frame starting at offset in
// buf, returning the deserialized proxy and the offset of the next frame.
func ReadFramedNode(buf []byte, offset int, nodeKey NodeKey, deweyID *DeweyID, cfg *ResourceConfig) (NodeProxy, int, error) {
	if offset+recordHeaderSize > len(buf) {
		return nil, 0, NewTruncatedRecord(int64(offset), "frame-header")
	}
	size := int(readUint32LE(buf[offset : offset+4]))
	bodyStart := offset + recordHeaderSize
	if bodyStart+size > len(buf) {
		return nil, 0, NewTruncatedRecord(int64(bodyStart), "frame-body")
	}
	record := buf[bodyStart : bodyStart+size]

	p, err := DeserializeNode(record, nodeKey, deweyID, cfg)
	if err != nil {
		return nil, 0, err
	}
	next := bodyStart + size + paddingFor(size)
	return p, next, nil
}

// DeserializeNode reads record's leading tag byte and dispatches to the matching proxy
// family's lazy deserializer (§4.1 "a record read begins with a one-byte read, then the
// kind's deserializer takes over"). record must already be sliced to exactly one node's
// bytes (tag byte included); the page cache / frame reader is responsible for locating
// record boundaries (size-prefix framing, or an offset table one level up).
func DeserializeNode(record []byte, nodeKey NodeKey, deweyID *DeweyID, cfg *ResourceConfig) (NodeProxy, error) {
	if len(record) == 0 {
		return nil, NewTruncatedRecord(0, "tag")
	}
	kind, err := KindFromTag(record[0], 0)
	if err != nil {
		return nil, err
	}

	switch kind.shape() {
	case shapeContainer:
		return ReadContainerNode(record, kind, nodeKey, deweyID, cfg), nil
	case shapeObjectKey:
		return ReadObjectKeyNode(record, nodeKey, deweyID, cfg), nil
	case shapeTopLevelValue, shapeObjectChildValue:
		return ReadValueNode(record, kind, nodeKey, deweyID, cfg), nil
	default:
		return nil, NewCorruptRecord(record[0], 0, "unhandled shape")
	}
}

// BindNode dispatches a Bind call against a proxy already allocated by the pool, aliasing
// page at recordBase (§3 Lifecycle, "By binding to a page"). The proxy's concrete type
// selects which Bind to call; kind becomes the bound container's or value node's kind
// (OBJECT_KEY proxies set their own). Callers typically get kind from a page's own
// record index.
func BindNode(p NodeProxy, kind Kind, page PageMemory, recordBase, slot int) {
	switch v := p.(type) {
	case *ContainerNode:
		v.Bind(page, recordBase, slot)
		v.kind = kind
	case *ObjectKeyNode:
		v.Bind(page, recordBase, slot)
	case *ValueNode:
		v.Bind(kind, page, recordBase, slot)
	}
}

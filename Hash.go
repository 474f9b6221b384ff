package nodestore

//============================================= Canonical hash
//
// The content hash of a node (§4.3 "Canonical hash input") is a pure function of its
// logical field values, covering a fixed canonical byte stream — never the on-disk
// encoding (invariant 7: identical logical values hash identically regardless of
// storage mode). Missing optional fields are encoded as their sentinel values, not
// omitted, so reordering setters that land on the same logical state always yields the
// same hash (invariant 8 / §8.8).

// HashInput carries every field the canonical hash covers. Callers (the proxy core)
// populate this from their current logical state, in whichever storage mode they are in.
type HashInput struct {
	NodeKey         NodeKey
	ParentKey       NodeKey
	Kind            Kind
	ChildCount      uint64
	DescendantCount uint64
	LeftSibling     NodeKey
	RightSibling    NodeKey
	FirstChild      NodeKey
	LastChild       NodeKey
	// NameKey is the OBJECT_KEY-specific tail; zero value ignored for other kinds.
	NameKey NodeKey
	// Payload is the already-serialized payload bytes, the value-kind-specific tail;
	// nil for container/OBJECT_KEY kinds.
	Payload []byte
}

// canonicalHashBytes builds the fixed byte stream computeHash hashes (§4.3).
func canonicalHashBytes(in HashInput) []byte {
	s := newSink()

	writeLong(s, uint64(in.NodeKey))
	writeLong(s, uint64(in.ParentKey))
	s.writeByte(Tag(in.Kind))
	writeLong(s, in.ChildCount)
	writeLong(s, in.DescendantCount)
	writeLong(s, uint64(in.LeftSibling))
	writeLong(s, uint64(in.RightSibling))
	writeLong(s, uint64(in.FirstChild))

	if in.LastChild != InvalidKeyForTypeCheck {
		writeLong(s, uint64(in.LastChild))
	}

	switch in.Kind.shape() {
	case shapeObjectKey:
		writeLong(s, uint64(in.NameKey))
	case shapeTopLevelValue, shapeObjectChildValue:
		s.writeBytes(in.Payload)
	}

	return s.Bytes()
}

// computeHash hashes the canonical byte stream with the configured 64-bit hash function
// (§4.1 computeHash / §6 "Hash function").
func computeHash(hashFn HashFunc, in HashInput) Hash {
	return Hash(hashFn(canonicalHashBytes(in)))
}

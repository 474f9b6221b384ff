package nodestore

//============================================= DeweyID
//
// A path-order label identifying a node's position in the tree (§3 "DeweyID"), parsed
// lazily: a DeweyID starts from either the raw bytes or the decoded division list, and
// the other form is only computed when first requested, matching the two-stage-lazy
// discipline the rest of the node layer uses for metadata/value fields.

// DeweyID is built from either raw encoded bytes or a decoded division list; the other
// form is computed on first request and then cached alongside it.
type DeweyID struct {
	raw     []byte
	decoded []uint32
}

// NewDeweyIDFromBytes wraps raw DeweyID bytes without decoding them.
func NewDeweyIDFromBytes(raw []byte) *DeweyID {
	return &DeweyID{raw: raw}
}

// NewDeweyIDFromDivisions builds an already-decoded DeweyID, e.g. when a factory-created
// node knows its path label directly.
func NewDeweyIDFromDivisions(divisions []uint32) *DeweyID {
	return &DeweyID{decoded: divisions}
}

// Bytes returns the encoded form, encoding lazily from divisions if only those are held.
func (d *DeweyID) Bytes() []byte {
	if d == nil {
		return nil
	}
	if d.raw != nil {
		return d.raw
	}
	s := newSink()
	for _, div := range d.decoded {
		writeSigned(s, int32(div))
	}
	d.raw = s.Bytes()
	return d.raw
}

// Divisions returns the decoded division list, decoding lazily from raw bytes if only
// those are held (and caching the result, the same "materialize at most once" rule the
// proxy core applies to metadata/value fields).
func (d *DeweyID) Divisions() ([]uint32, error) {
	if d == nil {
		return nil, nil
	}
	if d.decoded != nil {
		return d.decoded, nil
	}

	r := newSource(d.raw)
	var divisions []uint32
	for r.pos < len(r.buf) {
		v, err := decodeSigned(r)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, uint32(v))
	}
	d.decoded = divisions
	return divisions, nil
}

package nodestore

//============================================= ValueNode (the 8 leaf value kinds)
//
// Two field layouts share one proxy type, selected by kind.shape() (§4.3):
//
//   shapeTopLevelValue    (FIELD_COUNT=7): parentKey·Δ, rightSib·Δ, leftSib·Δ, prevRev·s,
//                         lastModRev·s, hash·8, payload. STRING_VALUE, NUMBER_VALUE,
//                         BOOLEAN_VALUE, NULL_VALUE — value nodes that can themselves sit
//                         among array-element siblings.
//   shapeObjectChildValue (FIELD_COUNT=5): parentKey·Δ, prevRev·s, lastModRev·s, hash·8,
//                         payload. OBJECT_*_VALUE — a value hung off a single OBJECT_KEY,
//                         which never has siblings of its own.
//
// A ValueNode never exposes a Kind-specific payload type directly; callers type-switch on
// Kind() and call the matching Number/String/Boolean accessor (§6 "payload accessors
// dispatch by kind").

const (
	topValParentKey = iota
	topValRightSibling
	topValLeftSibling
	topValPrevRevision
	topValLastModRevision
	topValHash
	topValPayload
)

const (
	childValParentKey = iota
	childValPrevRevision
	childValLastModRevision
	childValHash
	childValPayload
)

// ValueNode is the proxy for all 8 leaf value kinds.
type ValueNode struct {
	proxyCore

	parentKey       NodeKey
	rightSibling    NodeKey
	leftSibling     NodeKey
	prevRevision    Revision
	lastModRevision Revision

	number  NumberValue
	str     StringPayload
	boolean bool
	// payload is cached once materialized, so hashInput doesn't re-encode on every call.
	payloadBytes []byte
}

func (n *ValueNode) hasSiblings() bool { return n.kind.shape() == shapeTopLevelValue }

func (n *ValueNode) idx(topLevel, objectChild int) int {
	if n.hasSiblings() {
		return topLevel
	}
	return objectChild
}

// NewValueNode is the scratch factory (§3 Lifecycle, "From scratch").
func NewValueNode(kind Kind, nodeKey NodeKey, cfg *ResourceConfig) *ValueNode {
	n := &ValueNode{parentKey: NullNodeKey}
	if kind.shape() == shapeTopLevelValue {
		n.rightSibling = NullNodeKey
		n.leftSibling = NullNodeKey
	}
	n.kind = kind
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.state = stateOwned
	return n
}

func (n *ValueNode) ParentKey() NodeKey {
	if n.state == stateOwned {
		return n.parentKey
	}
	v, _ := n.reader().readDelta(n.idx(topValParentKey, childValParentKey), n.nodeKey)
	return v
}

func (n *ValueNode) RightSibling() NodeKey {
	if !n.hasSiblings() {
		return NullNodeKey
	}
	if n.state == stateOwned {
		return n.rightSibling
	}
	v, _ := n.reader().readDelta(topValRightSibling, n.nodeKey)
	return v
}

func (n *ValueNode) LeftSibling() NodeKey {
	if !n.hasSiblings() {
		return NullNodeKey
	}
	if n.state == stateOwned {
		return n.leftSibling
	}
	v, _ := n.reader().readDelta(topValLeftSibling, n.nodeKey)
	return v
}

func (n *ValueNode) PrevRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.prevRevision
	}
	v, _ := n.reader().readSigned(n.idx(topValPrevRevision, childValPrevRevision))
	return Revision(v)
}

func (n *ValueNode) LastModRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.lastModRevision
	}
	v, _ := n.reader().readSigned(n.idx(topValLastModRevision, childValLastModRevision))
	return Revision(v)
}

// GetHash returns the node's content hash. Value nodes may be configured not to store
// the hash inline (§6 Resource configuration, HashType); when so, or while Owned, the
// hash is computed on first access and cached.
func (n *ValueNode) GetHash() Hash {
	n.materializeMetadata()
	if n.state != stateOwned && n.cfg.HashType == HashTypeConfigured {
		v, _ := n.reader().readLong(n.idx(topValHash, childValHash))
		return Hash(v)
	}
	if n.hashValid {
		return n.cachedHash
	}
	h := computeHash(n.hashFn, n.hashInput())
	n.cachedHash, n.hashValid = h, true
	return h
}

func (n *ValueNode) hashInput() HashInput {
	return HashInput{
		NodeKey: n.nodeKey, ParentKey: n.ParentKey(), Kind: n.kind,
		LeftSibling: n.LeftSibling(), RightSibling: n.RightSibling(),
		FirstChild: NullNodeKey, LastChild: NullNodeKey,
		Payload: n.encodedPayload(),
	}
}

//--------------------------------------------- payload accessors (dispatch by kind)

func (n *ValueNode) materializeValue() {
	if n.state == stateOwned || n.valueParsed {
		return
	}
	n.decodePayload(n.reader())
	n.valueParsed = true
}

func (n *ValueNode) decodePayload(r *recordReader) {
	src, ok := r.payloadSource(n.idx(topValPayload, childValPayload))
	if !ok {
		return
	}
	switch n.kind {
	case KindNumberValue, KindObjectNumberValue:
		n.number, _ = decodeNumberPayload(src)
	case KindStringValue, KindObjectStringValue:
		n.str, _ = decodeStringPayload(src)
	case KindBooleanValue, KindObjectBooleanValue:
		n.boolean, _ = decodeBooleanPayload(src)
	case KindNullValue, KindObjectNullValue:
		// no body to read
	}
}

// Number returns the node's decoded number payload (valid only when Kind() is
// NUMBER_VALUE or OBJECT_NUMBER_VALUE).
func (n *ValueNode) Number() NumberValue {
	n.materializeValue()
	return n.number
}

// String returns the node's decoded string payload, applying FSST decompression against
// the bound page's symbol table when Compressed is set (§4.3 "Payload encodings, string").
func (n *ValueNode) String() string {
	n.materializeValue()
	if !n.str.Compressed {
		return string(n.str.Bytes)
	}
	if n.page != nil {
		if tbl := n.page.SymbolTable(); tbl != nil {
			return string(tbl.Decompress(n.str.Bytes))
		}
	}
	return string(n.str.Bytes)
}

// Boolean returns the node's decoded boolean payload.
func (n *ValueNode) Boolean() bool {
	n.materializeValue()
	return n.boolean
}

func (n *ValueNode) encodedPayload() []byte {
	n.materializeValue()
	s := newSink()
	switch n.kind {
	case KindNumberValue, KindObjectNumberValue:
		encodeNumberPayload(s, n.number)
	case KindStringValue, KindObjectStringValue:
		encodeStringPayload(s, n.str)
	case KindBooleanValue, KindObjectBooleanValue:
		encodeBooleanPayload(s, n.boolean)
	case KindNullValue, KindObjectNullValue:
		// empty
	}
	return s.Bytes()
}

//--------------------------------------------- setters

func (n *ValueNode) SetParentKey(v NodeKey) {
	n.setDelta(n.idx(topValParentKey, childValParentKey), &n.parentKey, v)
}

func (n *ValueNode) SetRightSibling(v NodeKey) {
	if !n.hasSiblings() {
		return
	}
	n.setDelta(topValRightSibling, &n.rightSibling, v)
}

func (n *ValueNode) SetLeftSibling(v NodeKey) {
	if !n.hasSiblings() {
		return
	}
	n.setDelta(topValLeftSibling, &n.leftSibling, v)
}

func (n *ValueNode) setDelta(idx int, owned *NodeKey, v NodeKey) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.deltaWidthOK(idx, int64(v), int64(n.nodeKey)); err == nil && ok {
			r.writeDeltaInPlace(n.page, idx, int64(v), int64(n.nodeKey))
			n.hashValid = false
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	*owned = v
	n.hashValid = false
}

func (n *ValueNode) SetPrevRevision(v Revision) {
	n.materializeMetadata()
	idx := n.idx(topValPrevRevision, childValPrevRevision)
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(idx, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, idx, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.prevRevision = v
}

func (n *ValueNode) SetLastModRevision(v Revision) {
	n.materializeMetadata()
	idx := n.idx(topValLastModRevision, childValLastModRevision)
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(idx, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, idx, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.lastModRevision = v
}

func (n *ValueNode) SetHash(v Hash) {
	if n.state == stateBound {
		n.reader().writeLongInPlace(n.page, n.idx(topValHash, childValHash), uint64(v))
		return
	}
	n.cachedHash, n.hashValid = v, true
}

// SetNumber/SetString/SetBoolean always force a transition to Owned: value payloads are
// variable-width, so an in-place rewrite could only ever be legal by coincidence, and
// §4.5 treats any payload mutation as "materialize, then write" for simplicity and safety.
func (n *ValueNode) SetNumber(v NumberValue) {
	n.materializeToOwned()
	n.number = v
	n.hashValid = false
}

func (n *ValueNode) SetString(v StringPayload) {
	n.materializeToOwned()
	n.str = v
	n.hashValid = false
}

func (n *ValueNode) SetBoolean(v bool) {
	n.materializeToOwned()
	n.boolean = v
	n.hashValid = false
}

//--------------------------------------------- lifecycle

func (n *ValueNode) materializeMetadata() {
	if n.state == stateOwned || n.metadataParsed {
		return
	}
	r := n.reader()
	prev, _ := r.readSigned(n.idx(topValPrevRevision, childValPrevRevision))
	lastMod, _ := r.readSigned(n.idx(topValLastModRevision, childValLastModRevision))
	n.prevRevision = Revision(prev)
	n.lastModRevision = Revision(lastMod)
	n.metadataParsed = true
}

func (n *ValueNode) materializeToOwned() {
	if n.state == stateOwned {
		return
	}
	n.parentKey = n.ParentKey()
	if n.hasSiblings() {
		n.rightSibling = n.RightSibling()
		n.leftSibling = n.LeftSibling()
	}
	n.materializeMetadata()
	n.materializeValue()
	h := n.GetHash()
	n.cachedHash, n.hashValid = h, true

	n.page = nil
	n.recordBytes = nil
	n.state = stateOwned
}

func (n *ValueNode) Unbind() { n.materializeToOwned() }

func (n *ValueNode) Bind(kind Kind, page PageMemory, recordBase, slot int) {
	n.resetCore()
	n.kind = kind
	n.page = page
	n.recordBase = recordBase
	n.slotIndex = slot
	n.state = stateBound
}

func (n *ValueNode) ToSnapshot() *ValueNode {
	n.materializeToOwned()
	cp := &ValueNode{
		parentKey: n.parentKey, rightSibling: n.rightSibling, leftSibling: n.leftSibling,
		prevRevision: n.prevRevision, lastModRevision: n.lastModRevision,
		number: n.number, str: n.str, boolean: n.boolean,
	}
	cp.kind = n.kind
	cp.nodeKey = n.nodeKey
	cp.cfg = n.cfg
	cp.hashFn = n.hashFn
	cp.state = stateOwned
	cp.valueParsed = true
	cp.cachedHash, cp.hashValid = n.cachedHash, n.hashValid
	return cp
}

func (n *ValueNode) WriteTo(s *sink) int {
	w := newRecordWriter(n.kind)
	pIdx, rIdx, lIdx := topValParentKey, topValRightSibling, topValLeftSibling
	prevIdx, lastModIdx, hashIdx, payloadIdx := topValPrevRevision, topValLastModRevision, topValHash, topValPayload
	if !n.hasSiblings() {
		pIdx, prevIdx, lastModIdx, hashIdx, payloadIdx =
			childValParentKey, childValPrevRevision, childValLastModRevision, childValHash, childValPayload
	}

	w.writeDelta(pIdx, n.ParentKey(), n.nodeKey)
	if n.hasSiblings() {
		w.writeDelta(rIdx, n.RightSibling(), n.nodeKey)
		w.writeDelta(lIdx, n.LeftSibling(), n.nodeKey)
	}
	w.writeSigned(prevIdx, int32(n.PrevRevision()))
	w.writeSigned(lastModIdx, int32(n.LastModRevision()))
	if n.cfg == nil || n.cfg.HashType == HashTypeConfigured {
		w.writeLong(hashIdx, uint64(n.GetHash()))
	}
	// else: HashTypeNone leaves the hash field's offset-table entry absent; GetHash
	// computes it from the logical fields on first access and caches it instead.

	n.materializeValue()
	switch n.kind {
	case KindNumberValue, KindObjectNumberValue:
		w.writeNumberPayload(payloadIdx, n.number)
	case KindStringValue, KindObjectStringValue:
		w.writeStringPayload(payloadIdx, n.str)
	case KindBooleanValue, KindObjectBooleanValue:
		w.writeBooleanPayload(payloadIdx, n.boolean)
	case KindNullValue, KindObjectNullValue:
		w.writeNullPayload(payloadIdx)
	}
	return w.finish(s)
}

// ReadValueNode deserializes a record into a Lazy ValueNode. Only the structural fields
// (parentKey, siblings when present) are decoded eagerly; metadata and payload stay
// deferred until PrevRevision/LastModRevision/GetHash/Number/String/Boolean are first
// called (§4.4 two-stage lazy deserialize, §8.5 "lazy laziness").
func ReadValueNode(record []byte, kind Kind, nodeKey NodeKey, deweyID *DeweyID, cfg *ResourceConfig) *ValueNode {
	n := &ValueNode{}
	n.kind = kind
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.deweyID = deweyID
	n.state = stateLazy
	n.recordBytes = record

	r := n.reader()
	n.parentKey, _ = r.readDelta(n.idx(topValParentKey, childValParentKey), nodeKey)
	if n.hasSiblings() {
		n.rightSibling, _ = r.readDelta(topValRightSibling, nodeKey)
		n.leftSibling, _ = r.readDelta(topValLeftSibling, nodeKey)
	}
	return n
}

func (n *ValueNode) AcceptVisitor(v Visitor) { v.VisitValue(n) }

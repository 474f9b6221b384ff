package nodestore

//============================================= ObjectKeyNode (OBJECT_KEY)
//
// Field layout (§4.3 shapeObjectKey, FIELD_COUNT=10): parentKey·Δ, rightSib·Δ, leftSib·Δ,
// firstChild·Δ, nameKey·s, pathNodeKey·Δ, prevRev·s, lastModRev·s, hash·8,
// descendantCount·sL. By convention an OBJECT_KEY has exactly one child
// (firstChild == lastChild, childCount ≡ 1), so no separate lastChild/childCount field is
// stored (§3 invariant, OBJECT_KEY shape note). nameKey is a plain signed 32-bit varint,
// not delta-coded against nodeKey: it addresses the name dictionary, not a sibling node.

const (
	objKeyParentKey = iota
	objKeyRightSibling
	objKeyLeftSibling
	objKeyFirstChild
	objKeyNameKey
	objKeyPathNodeKey
	objKeyPrevRevision
	objKeyLastModRevision
	objKeyHash
	objKeyDescendantCount
)

// ObjectKeyNode is the proxy for OBJECT_KEY nodes.
type ObjectKeyNode struct {
	proxyCore

	parentKey       NodeKey
	rightSibling    NodeKey
	leftSibling     NodeKey
	firstChild      NodeKey
	nameKey         NodeKey
	pathNodeKey     NodeKey
	prevRevision    Revision
	lastModRevision Revision
	descendantCount uint64
}

// NewObjectKeyNode is the scratch factory (§3 Lifecycle, "From scratch").
func NewObjectKeyNode(nodeKey NodeKey, cfg *ResourceConfig) *ObjectKeyNode {
	n := &ObjectKeyNode{
		parentKey:    NullNodeKey,
		rightSibling: NullNodeKey,
		leftSibling:  NullNodeKey,
		firstChild:   NullNodeKey,
		nameKey:      NullNodeKey,
		pathNodeKey:  NullNodeKey,
	}
	n.kind = KindObjectKey
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.state = stateOwned
	return n
}

func (n *ObjectKeyNode) ParentKey() NodeKey {
	if n.state == stateOwned {
		return n.parentKey
	}
	v, _ := n.reader().readDelta(objKeyParentKey, n.nodeKey)
	return v
}

func (n *ObjectKeyNode) RightSibling() NodeKey {
	if n.state == stateOwned {
		return n.rightSibling
	}
	v, _ := n.reader().readDelta(objKeyRightSibling, n.nodeKey)
	return v
}

func (n *ObjectKeyNode) LeftSibling() NodeKey {
	if n.state == stateOwned {
		return n.leftSibling
	}
	v, _ := n.reader().readDelta(objKeyLeftSibling, n.nodeKey)
	return v
}

// FirstChild and LastChild are the same node for OBJECT_KEY: the single value child.
func (n *ObjectKeyNode) FirstChild() NodeKey {
	if n.state == stateOwned {
		return n.firstChild
	}
	v, _ := n.reader().readDelta(objKeyFirstChild, n.nodeKey)
	return v
}

func (n *ObjectKeyNode) LastChild() NodeKey { return n.FirstChild() }

// ChildCount is always 1 for OBJECT_KEY by convention; not stored.
func (n *ObjectKeyNode) ChildCount() uint64 { return 1 }

func (n *ObjectKeyNode) NameKey() NodeKey {
	if n.state == stateOwned {
		return n.nameKey
	}
	v, _ := n.reader().readSigned(objKeyNameKey)
	return NodeKey(int64(v))
}

func (n *ObjectKeyNode) PathNodeKey() NodeKey {
	if n.state == stateOwned {
		return n.pathNodeKey
	}
	v, _ := n.reader().readDelta(objKeyPathNodeKey, n.nodeKey)
	return v
}

func (n *ObjectKeyNode) DescendantCount() uint64 {
	if n.state == stateOwned {
		return n.descendantCount
	}
	v, _ := n.reader().readSignedLong(objKeyDescendantCount)
	return uint64(v)
}

func (n *ObjectKeyNode) PrevRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.prevRevision
	}
	v, _ := n.reader().readSigned(objKeyPrevRevision)
	return Revision(v)
}

func (n *ObjectKeyNode) LastModRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.lastModRevision
	}
	v, _ := n.reader().readSigned(objKeyLastModRevision)
	return Revision(v)
}

func (n *ObjectKeyNode) GetHash() Hash {
	n.materializeMetadata()
	if n.state == stateOwned {
		if n.hashValid {
			return n.cachedHash
		}
		h := computeHash(n.hashFn, n.hashInput())
		n.cachedHash, n.hashValid = h, true
		return h
	}
	v, _ := n.reader().readLong(objKeyHash)
	return Hash(v)
}

func (n *ObjectKeyNode) hashInput() HashInput {
	return HashInput{
		NodeKey: n.nodeKey, ParentKey: n.ParentKey(), Kind: n.kind,
		ChildCount: 1, DescendantCount: n.DescendantCount(),
		LeftSibling: n.LeftSibling(), RightSibling: n.RightSibling(),
		FirstChild: n.FirstChild(), LastChild: InvalidKeyForTypeCheck,
		NameKey: n.NameKey(),
	}
}

//--------------------------------------------- setters

func (n *ObjectKeyNode) SetParentKey(v NodeKey)    { n.setDelta(objKeyParentKey, &n.parentKey, v) }
func (n *ObjectKeyNode) SetRightSibling(v NodeKey) { n.setDelta(objKeyRightSibling, &n.rightSibling, v) }
func (n *ObjectKeyNode) SetLeftSibling(v NodeKey)  { n.setDelta(objKeyLeftSibling, &n.leftSibling, v) }
func (n *ObjectKeyNode) SetFirstChild(v NodeKey)   { n.setDelta(objKeyFirstChild, &n.firstChild, v) }
func (n *ObjectKeyNode) SetPathNodeKey(v NodeKey)  { n.setDelta(objKeyPathNodeKey, &n.pathNodeKey, v) }

// SetNameKey stores nameKey as a plain signed 32-bit varint (not delta-coded against
// nodeKey, unlike the sibling/child pointer fields).
func (n *ObjectKeyNode) SetNameKey(v NodeKey) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(objKeyNameKey, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, objKeyNameKey, int32(v))
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	n.nameKey = v
	n.hashValid = false
}

func (n *ObjectKeyNode) SetDescendantCount(v uint64) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedLongWidthOK(objKeyDescendantCount, int64(v)); err == nil && ok {
			r.writeSignedLongInPlace(n.page, objKeyDescendantCount, int64(v))
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	n.descendantCount = v
	n.hashValid = false
}

func (n *ObjectKeyNode) SetPrevRevision(v Revision) {
	n.materializeMetadata()
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(objKeyPrevRevision, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, objKeyPrevRevision, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.prevRevision = v
	n.hashValid = false
}

func (n *ObjectKeyNode) SetLastModRevision(v Revision) {
	n.materializeMetadata()
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(objKeyLastModRevision, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, objKeyLastModRevision, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.lastModRevision = v
	n.hashValid = false
}

func (n *ObjectKeyNode) SetHash(v Hash) {
	if n.state == stateBound {
		n.reader().writeLongInPlace(n.page, objKeyHash, uint64(v))
		return
	}
	n.cachedHash, n.hashValid = v, true
}

func (n *ObjectKeyNode) setDelta(idx int, owned *NodeKey, v NodeKey) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.deltaWidthOK(idx, int64(v), int64(n.nodeKey)); err == nil && ok {
			r.writeDeltaInPlace(n.page, idx, int64(v), int64(n.nodeKey))
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	*owned = v
	n.hashValid = false
}

//--------------------------------------------- lifecycle

func (n *ObjectKeyNode) materializeMetadata() {
	if n.state == stateOwned || n.metadataParsed {
		return
	}
	r := n.reader()
	prev, _ := r.readSigned(objKeyPrevRevision)
	lastMod, _ := r.readSigned(objKeyLastModRevision)
	n.prevRevision = Revision(prev)
	n.lastModRevision = Revision(lastMod)
	n.metadataParsed = true
}

func (n *ObjectKeyNode) materializeToOwned() {
	if n.state == stateOwned {
		return
	}
	n.parentKey = n.ParentKey()
	n.rightSibling = n.RightSibling()
	n.leftSibling = n.LeftSibling()
	n.firstChild = n.FirstChild()
	n.nameKey = n.NameKey()
	n.pathNodeKey = n.PathNodeKey()
	n.descendantCount = n.DescendantCount()
	n.materializeMetadata()
	h := n.GetHash()
	n.cachedHash, n.hashValid = h, true

	n.page = nil
	n.recordBytes = nil
	n.state = stateOwned
}

func (n *ObjectKeyNode) Unbind() { n.materializeToOwned() }

func (n *ObjectKeyNode) Bind(page PageMemory, recordBase, slot int) {
	n.resetCore()
	n.kind = KindObjectKey
	n.page = page
	n.recordBase = recordBase
	n.slotIndex = slot
	n.state = stateBound
}

func (n *ObjectKeyNode) ToSnapshot() *ObjectKeyNode {
	n.materializeToOwned()
	cp := &ObjectKeyNode{
		parentKey: n.parentKey, rightSibling: n.rightSibling, leftSibling: n.leftSibling,
		firstChild: n.firstChild, nameKey: n.nameKey, pathNodeKey: n.pathNodeKey,
		prevRevision: n.prevRevision, lastModRevision: n.lastModRevision,
		descendantCount: n.descendantCount,
	}
	cp.kind = KindObjectKey
	cp.nodeKey = n.nodeKey
	cp.cfg = n.cfg
	cp.hashFn = n.hashFn
	cp.state = stateOwned
	cp.cachedHash, cp.hashValid = n.cachedHash, n.hashValid
	return cp
}

func (n *ObjectKeyNode) WriteTo(s *sink) int {
	w := newRecordWriter(KindObjectKey)
	w.writeDelta(objKeyParentKey, n.ParentKey(), n.nodeKey)
	w.writeDelta(objKeyRightSibling, n.RightSibling(), n.nodeKey)
	w.writeDelta(objKeyLeftSibling, n.LeftSibling(), n.nodeKey)
	w.writeDelta(objKeyFirstChild, n.FirstChild(), n.nodeKey)
	w.writeSigned(objKeyNameKey, int32(n.NameKey()))
	w.writeDelta(objKeyPathNodeKey, n.PathNodeKey(), n.nodeKey)
	w.writeSigned(objKeyPrevRevision, int32(n.PrevRevision()))
	w.writeSigned(objKeyLastModRevision, int32(n.LastModRevision()))
	w.writeLong(objKeyHash, uint64(n.GetHash()))
	w.writeSignedLong(objKeyDescendantCount, int64(n.DescendantCount()))
	return w.finish(s)
}

// ReadObjectKeyNode deserializes a record into a Lazy ObjectKeyNode.
func ReadObjectKeyNode(record []byte, nodeKey NodeKey, deweyID *DeweyID, cfg *ResourceConfig) *ObjectKeyNode {
	n := &ObjectKeyNode{}
	n.kind = KindObjectKey
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.deweyID = deweyID
	n.state = stateLazy
	n.recordBytes = record

	r := n.reader()
	n.parentKey, _ = r.readDelta(objKeyParentKey, nodeKey)
	n.rightSibling, _ = r.readDelta(objKeyRightSibling, nodeKey)
	n.leftSibling, _ = r.readDelta(objKeyLeftSibling, nodeKey)
	n.firstChild, _ = r.readDelta(objKeyFirstChild, nodeKey)
	nk, _ := r.readSigned(objKeyNameKey)
	n.nameKey = NodeKey(int64(nk))
	dc, _ := r.readSignedLong(objKeyDescendantCount)
	n.descendantCount = uint64(dc)

	return n
}

func (n *ObjectKeyNode) AcceptVisitor(v Visitor) { v.VisitObjectKey(n) }

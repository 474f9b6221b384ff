package nodestore

//============================================= ContainerNode (JSON_DOCUMENT/OBJECT/ARRAY)
//
// Field layout (§4.3, shapeContainer, FIELD_COUNT=10): parentKey·Δ, rightSib·Δ,
// leftSib·Δ, firstChild·Δ, lastChild·Δ, prevRev·s, lastModRev·s, hash·8, childCount·sL,
// descendantCount·sL.

const (
	containerParentKey = iota
	containerRightSibling
	containerLeftSibling
	containerFirstChild
	containerLastChild
	containerPrevRevision
	containerLastModRevision
	containerHash
	containerChildCount
	containerDescendantCount
)

// ContainerNode is the proxy for JSON_DOCUMENT, OBJECT, and ARRAY nodes.
type ContainerNode struct {
	proxyCore

	parentKey       NodeKey
	rightSibling    NodeKey
	leftSibling     NodeKey
	firstChild      NodeKey
	lastChild       NodeKey
	prevRevision    Revision
	lastModRevision Revision
	childCount      uint64
	descendantCount uint64
}

// NewContainerNode is the scratch factory (§3 Lifecycle, "From scratch"): every field is
// owned and caller-set, starting from sentinel defaults.
func NewContainerNode(kind Kind, nodeKey NodeKey, cfg *ResourceConfig) *ContainerNode {
	n := &ContainerNode{
		parentKey:    NullNodeKey,
		rightSibling: NullNodeKey,
		leftSibling:  NullNodeKey,
		firstChild:   NullNodeKey,
		lastChild:    NullNodeKey,
	}
	n.kind = kind
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.state = stateOwned
	return n
}

func (n *ContainerNode) ParentKey() NodeKey {
	if n.state == stateOwned {
		return n.parentKey
	}
	v, _ := n.reader().readDelta(containerParentKey, n.nodeKey)
	return v
}

func (n *ContainerNode) RightSibling() NodeKey {
	if n.state == stateOwned {
		return n.rightSibling
	}
	v, _ := n.reader().readDelta(containerRightSibling, n.nodeKey)
	return v
}

func (n *ContainerNode) LeftSibling() NodeKey {
	if n.state == stateOwned {
		return n.leftSibling
	}
	v, _ := n.reader().readDelta(containerLeftSibling, n.nodeKey)
	return v
}

func (n *ContainerNode) FirstChild() NodeKey {
	if n.state == stateOwned {
		return n.firstChild
	}
	v, _ := n.reader().readDelta(containerFirstChild, n.nodeKey)
	return v
}

func (n *ContainerNode) LastChild() NodeKey {
	if n.state == stateOwned {
		return n.lastChild
	}
	v, _ := n.reader().readDelta(containerLastChild, n.nodeKey)
	return v
}

func (n *ContainerNode) ChildCount() uint64 {
	if n.state == stateOwned {
		return n.childCount
	}
	v, _ := n.reader().readSignedLong(containerChildCount)
	return uint64(v)
}

func (n *ContainerNode) DescendantCount() uint64 {
	if n.state == stateOwned {
		return n.descendantCount
	}
	v, _ := n.reader().readSignedLong(containerDescendantCount)
	return uint64(v)
}

// PrevRevision/LastModRevision are the "metadata" stage fields (§4.4 Stage 2a): for a
// Lazy proxy, the first touch here materializes both revisions into owned fields (the
// hash is read from the record by GetHash).
func (n *ContainerNode) PrevRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.prevRevision
	}
	v, _ := n.reader().readSigned(containerPrevRevision)
	return Revision(v)
}

func (n *ContainerNode) LastModRevision() Revision {
	n.materializeMetadata()
	if n.state == stateOwned {
		return n.lastModRevision
	}
	v, _ := n.reader().readSigned(containerLastModRevision)
	return Revision(v)
}

// GetHash returns the node's content hash, computing it on first access if the record
// carries no inline hash (never the case for containers, which always serialize hash,
// but the cache path is shared with ValueNode's configurable case for symmetry).
func (n *ContainerNode) GetHash() Hash {
	n.materializeMetadata()
	if n.state == stateOwned {
		if n.hashValid {
			return n.cachedHash
		}
		h := computeHash(n.hashFn, n.hashInput())
		n.cachedHash, n.hashValid = h, true
		return h
	}
	v, _ := n.reader().readLong(containerHash)
	return Hash(v)
}

func (n *ContainerNode) hashInput() HashInput {
	return HashInput{
		NodeKey: n.nodeKey, ParentKey: n.ParentKey(), Kind: n.kind,
		ChildCount: n.ChildCount(), DescendantCount: n.DescendantCount(),
		LeftSibling: n.LeftSibling(), RightSibling: n.RightSibling(),
		FirstChild: n.FirstChild(), LastChild: n.LastChild(),
	}
}

//--------------------------------------------- setters

func (n *ContainerNode) SetParentKey(v NodeKey) { n.setDelta(containerParentKey, &n.parentKey, v) }
func (n *ContainerNode) SetRightSibling(v NodeKey) {
	n.setDelta(containerRightSibling, &n.rightSibling, v)
}
func (n *ContainerNode) SetLeftSibling(v NodeKey) { n.setDelta(containerLeftSibling, &n.leftSibling, v) }
func (n *ContainerNode) SetFirstChild(v NodeKey)  { n.setDelta(containerFirstChild, &n.firstChild, v) }
func (n *ContainerNode) SetLastChild(v NodeKey)   { n.setDelta(containerLastChild, &n.lastChild, v) }

func (n *ContainerNode) SetChildCount(v uint64) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedLongWidthOK(containerChildCount, int64(v)); err == nil && ok {
			r.writeSignedLongInPlace(n.page, containerChildCount, int64(v))
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	n.childCount = v
	n.hashValid = false
}

func (n *ContainerNode) SetDescendantCount(v uint64) {
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedLongWidthOK(containerDescendantCount, int64(v)); err == nil && ok {
			r.writeSignedLongInPlace(n.page, containerDescendantCount, int64(v))
			return
		}
		n.materializeToOwned()
	} else if n.state == stateLazy {
		n.materializeToOwned()
	}
	n.descendantCount = v
	n.hashValid = false
}

func (n *ContainerNode) SetPrevRevision(v Revision) {
	n.materializeMetadata()
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(containerPrevRevision, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, containerPrevRevision, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.prevRevision = v
	n.hashValid = false
}

func (n *ContainerNode) SetLastModRevision(v Revision) {
	n.materializeMetadata()
	if n.state == stateBound {
		r := n.reader()
		if ok, err := r.signedWidthOK(containerLastModRevision, int32(v)); err == nil && ok {
			r.writeSignedInPlace(n.page, containerLastModRevision, int32(v))
			return
		}
		n.materializeToOwned()
	}
	n.lastModRevision = v
	n.hashValid = false
}

// SetHash is always in-place when Bound (§4.5 "Fixed-8-byte fields (hash) are always
// in-place").
func (n *ContainerNode) SetHash(v Hash) {
	if n.state == stateBound {
		n.reader().writeLongInPlace(n.page, containerHash, uint64(v))
		return
	}
	n.cachedHash, n.hashValid = v, true
}

// setDelta is the shared in-place-or-materialize path for the five delta-encoded
// relation fields (§4.5 Setters, "Bound: compute new encoded width...").
func (n *ContainerNode) setDelta(idx int, owned *NodeKey, v NodeKey) {
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

func (n *ContainerNode) materializeMetadata() {
	if n.state == stateOwned || n.metadataParsed {
		return
	}
	r := n.reader()
	prev, _ := r.readSigned(containerPrevRevision)
	lastMod, _ := r.readSigned(containerLastModRevision)
	n.prevRevision = Revision(prev)
	n.lastModRevision = Revision(lastMod)
	n.metadataParsed = true
}

// materializeToOwned pulls every field into owned storage and clears any page/record
// aliasing, implementing both unbind() and the Lazy-promotion half of §4.5 Transitions.
func (n *ContainerNode) materializeToOwned() {
	if n.state == stateOwned {
		return
	}
	n.parentKey = n.ParentKey()
	n.rightSibling = n.RightSibling()
	n.leftSibling = n.LeftSibling()
	n.firstChild = n.FirstChild()
	n.lastChild = n.LastChild()
	n.childCount = n.ChildCount()
	n.descendantCount = n.DescendantCount()
	n.materializeMetadata()
	h := n.GetHash()
	n.cachedHash, n.hashValid = h, true

	n.page = nil
	n.recordBytes = nil
	n.state = stateOwned
}

// Unbind forces full materialization and clears the page reference (§4.5 Transitions,
// §8.4 Unbind equivalence).
func (n *ContainerNode) Unbind() { n.materializeToOwned() }

// Bind transitions the proxy into Bound state, aliasing page at recordBase (§3
// Lifecycle, "By binding to a page").
func (n *ContainerNode) Bind(page PageMemory, recordBase, slot int) {
	n.resetCore()
	n.page = page
	n.recordBase = recordBase
	n.slotIndex = slot
	n.state = stateBound
}

// ToSnapshot forces full parse and returns a fresh, independent Owned copy (§4.5
// Transitions, §8.4).
func (n *ContainerNode) ToSnapshot() *ContainerNode {
	n.materializeToOwned() // ensure source fields are available to copy without aliasing
	cp := &ContainerNode{
		parentKey: n.parentKey, rightSibling: n.rightSibling, leftSibling: n.leftSibling,
		firstChild: n.firstChild, lastChild: n.lastChild,
		prevRevision: n.prevRevision, lastModRevision: n.lastModRevision,
		childCount: n.childCount, descendantCount: n.descendantCount,
	}
	cp.kind = n.kind
	cp.nodeKey = n.nodeKey
	cp.cfg = n.cfg
	cp.hashFn = n.hashFn
	cp.state = stateOwned
	cp.cachedHash, cp.hashValid = n.cachedHash, n.hashValid
	return cp
}

// WriteTo serializes the node into sink, returning the bytes written (§4.4 "Serialize").
func (n *ContainerNode) WriteTo(s *sink) int {
	w := newRecordWriter(n.kind)
	w.writeDelta(containerParentKey, n.ParentKey(), n.nodeKey)
	w.writeDelta(containerRightSibling, n.RightSibling(), n.nodeKey)
	w.writeDelta(containerLeftSibling, n.LeftSibling(), n.nodeKey)
	w.writeDelta(containerFirstChild, n.FirstChild(), n.nodeKey)
	w.writeDelta(containerLastChild, n.LastChild(), n.nodeKey)
	w.writeSigned(containerPrevRevision, int32(n.PrevRevision()))
	w.writeSigned(containerLastModRevision, int32(n.LastModRevision()))
	w.writeLong(containerHash, uint64(n.GetHash()))
	if n.cfg == nil || n.cfg.StoreChildCount {
		w.writeSignedLong(containerChildCount, int64(n.ChildCount()))
	}
	w.writeSignedLong(containerDescendantCount, int64(n.DescendantCount()))
	return w.finish(s)
}

// ReadContainerNode deserializes a record (already sliced to exactly this node's bytes,
// tag byte included) into a Lazy ContainerNode (§4.4 "Deserialize", two-stage lazy).
// Structural fields are decoded eagerly; metadata (revisions, hash) stays deferred.
func ReadContainerNode(record []byte, kind Kind, nodeKey NodeKey, deweyID *DeweyID, cfg *ResourceConfig) *ContainerNode {
	n := &ContainerNode{}
	n.kind = kind
	n.nodeKey = nodeKey
	n.cfg = cfg
	n.hashFn = cfg.NodeHashFunction
	n.deweyID = deweyID
	n.state = stateLazy
	n.recordBytes = record

	r := n.reader()
	n.parentKey, _ = r.readDelta(containerParentKey, nodeKey)
	n.rightSibling, _ = r.readDelta(containerRightSibling, nodeKey)
	n.leftSibling, _ = r.readDelta(containerLeftSibling, nodeKey)
	n.firstChild, _ = r.readDelta(containerFirstChild, nodeKey)
	n.lastChild, _ = r.readDelta(containerLastChild, nodeKey)
	cc, _ := r.readSignedLong(containerChildCount)
	dc, _ := r.readSignedLong(containerDescendantCount)
	n.childCount = uint64(cc)
	n.descendantCount = uint64(dc)

	// Structural fields are now also held in the owned fields. State stays Lazy because
	// the record bytes are still needed for the metadata stage; until the proxy is
	// promoted to Owned, getters keep decoding from those bytes, which yields the same
	// values.
	return n
}

func (n *ContainerNode) AcceptVisitor(v Visitor) { v.VisitContainer(n) }

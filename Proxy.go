package nodestore

//============================================= Node Proxy & Flyweight Core
//
// One proxy type per proxy family (§9 "tagged variant of proxy types"): ContainerNode
// (JSON_DOCUMENT/OBJECT/ARRAY), ObjectKeyNode (OBJECT_KEY), ValueNode (the 8 leaf
// kinds). Each has three lifecycle states (§3 Lifecycle, §4.5):
//
//   Owned  — every field lives in the struct's own Go fields.
//   Bound  — fields are read/written through the offset table against a page segment
//            the proxy does not own; the proxy is a borrowed, non-owning flyweight
//            whose lifetime is bounded by the cursor scope that bound it.
//   Lazy   — structural fields are eagerly decoded into owned fields; metadata and
//            payload stay behind in a private copy of the record bytes until first
//            touched (at most once), then are also materialized into owned fields.
//
// Proxies are pooled per proxy family (NodePool.go); readFrom/bind reset all state so pooling is
// safe (§3 Destruction).

// proxyState is the storage mode a proxy is currently in (§3 Lifecycle, §4.5 Transitions).
type proxyState uint8

const (
	stateOwned proxyState = iota
	stateBound
	stateLazy
)

// Visitor supports polymorphic traversal over node proxies (§6 Exposed interfaces,
// "acceptVisitor(v) for polymorphic traversal").
type Visitor interface {
	VisitContainer(*ContainerNode)
	VisitObjectKey(*ObjectKeyNode)
	VisitValue(*ValueNode)
}

// NodeProxy is the common capability set every concrete proxy exposes (§9 "a trait-object
// capability set {read field F, write field F, serialize, compute hash, accept
// visitor}"), dispatched through the Kind Registry.
type NodeProxy interface {
	Kind() Kind
	NodeKey() NodeKey
	ParentKey() NodeKey
	SetParentKey(NodeKey)
	GetHash() Hash
	SetHash(Hash)
	IsBound() bool
	IsBoundTo(page PageMemory) bool
	Unbind()
	WriteTo(s *sink) int
	AcceptVisitor(v Visitor)
}

// proxyCore holds the state every concrete proxy shares: which mode it is in, the page
// it is aliasing when Bound, and the private record bytes it is decoding from when Lazy.
// Concrete proxy types embed this and add their own owned scalar fields on top.
type proxyCore struct {
	kind    Kind
	nodeKey NodeKey
	cfg     *ResourceConfig
	hashFn  HashFunc

	state proxyState

	// Bound
	page       PageMemory
	recordBase int
	slotIndex  int

	// Lazy: a private, immutable copy of the serialized record (kind byte, offset
	// table, and data region), decoded on demand. nil once promoted to Owned.
	recordBytes []byte

	metadataParsed bool
	valueParsed    bool

	deweyID *DeweyID

	// cachedHash backs getHash when HashType is NONE (computed on first access) or when
	// a value node's hash was never serialized; hashValid tracks whether cachedHash
	// holds a usable value.
	cachedHash Hash
	hashValid  bool
}

func (c *proxyCore) Kind() Kind       { return c.kind }
func (c *proxyCore) NodeKey() NodeKey { return c.nodeKey }

// IsBound reports whether the proxy currently aliases a page (§6 Exposed interfaces).
func (c *proxyCore) IsBound() bool { return c.state == stateBound }

// IsBoundTo reports whether the proxy is Bound to this specific page.
func (c *proxyCore) IsBoundTo(page PageMemory) bool {
	return c.state == stateBound && c.page == page
}

func (c *proxyCore) reader() *recordReader {
	switch c.state {
	case stateBound:
		return newRecordReader(c.kind, c.page.Bytes(), c.recordBase)
	case stateLazy:
		return newRecordReader(c.kind, c.recordBytes, 0)
	default:
		return nil
	}
}

// resetCore clears every field so a pooled proxy can be reused by readFrom/bind without
// leaking state from its previous tenant (§3 Destruction).
func (c *proxyCore) resetCore() {
	c.kind = 0
	c.nodeKey = 0
	c.cfg = nil
	c.hashFn = nil
	c.state = stateOwned
	c.page = nil
	c.recordBase = 0
	c.slotIndex = 0
	c.recordBytes = nil
	c.metadataParsed = false
	c.valueParsed = false
	c.deweyID = nil
	c.cachedHash = 0
	c.hashValid = false
}

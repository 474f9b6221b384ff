package nodestore

// NodeKey is a monotonically issued node identity, also the primary content-address used
// by delta encoding (§3 "Node key").
type NodeKey uint64

// NullNodeKey is the sentinel for "no such pointer" (absent parent/sibling/child).
const NullNodeKey NodeKey = 0xFFFF_FFFF_FFFF_FFFE

// InvalidKeyForTypeCheck is a distinct sentinel from NullNodeKey, used to signal an
// absent last-child pointer specifically (§3, Open Questions: the two sentinels must
// round-trip independently and the canonical hash input treats them differently — see
// Hash.go).
const InvalidKeyForTypeCheck NodeKey = 0xFFFF_FFFF_FFFF_FFFF

// Revision is a zig-zag encoded i32 revision number (§3 "Revision numbers").
type Revision int32

// Hash is the 64-bit content hash of a node (§3 "Hash").
type Hash uint64

// HashType selects whether records carry an inline stored hash or compute it lazily.
type HashType uint8

const (
	HashTypeNone HashType = iota
	HashTypeConfigured
)

package nodestore

import "github.com/cespare/xxhash/v2"

//============================================= Resource configuration
//
// ResourceConfiguration is the consumed interface from the embedding resource session
// (§6 "Resource configuration"): hashType, whether child counts are stored, the node
// hash function, and whether DeweyIDs are persisted. Mirrors the shape of the teacher's
// MariOpts, generalized from "one file path" to the knobs the node layer actually reads.

// HashFunc is a deterministic 64-bit hash over an arbitrary byte stream (§6 "Hash
// function").
type HashFunc func(data []byte) uint64

// DefaultHashFunc is xxhash, the concrete 64-bit hash this module wires in by default
// for ResourceConfig.NodeHashFunction (see SPEC_FULL.md Domain Stack).
func DefaultHashFunc(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ResourceConfig is the consumed "Resource configuration" interface.
type ResourceConfig struct {
	// HashType selects whether the hash is stored inline in records or computed on
	// demand.
	HashType HashType
	// StoreChildCount controls whether container nodes persist childCount, or rely on
	// callers recomputing it from the child chain.
	StoreChildCount bool
	// NodeHashFunction is the 64-bit hash used for computeHash.
	NodeHashFunction HashFunc
	// AreDeweyIDsStored controls whether DeweyID bytes are persisted alongside a node
	// or are reconstructed by the cursor layer.
	AreDeweyIDsStored bool
}

// DefaultResourceConfig returns the configuration this module exercises by default:
// hashing on, child counts stored, xxhash as the hash function, DeweyIDs stored.
func DefaultResourceConfig() *ResourceConfig {
	return &ResourceConfig{
		HashType:          HashTypeConfigured,
		StoreChildCount:   true,
		NodeHashFunction:  DefaultHashFunc,
		AreDeweyIDsStored: true,
	}
}

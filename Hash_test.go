package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalHashDeterministic(t *testing.T) {
	in := HashInput{
		NodeKey: 5, ParentKey: 1, Kind: KindObject,
		ChildCount: 2, DescendantCount: 4,
		LeftSibling: NullNodeKey, RightSibling: NullNodeKey,
		FirstChild: 6, LastChild: 7,
	}
	h1 := computeHash(DefaultHashFunc, in)
	h2 := computeHash(DefaultHashFunc, in)
	require.Equal(t, h1, h2)
}

func TestCanonicalHashIgnoresLastChildSentinel(t *testing.T) {
	base := HashInput{
		NodeKey: 5, ParentKey: 1, Kind: KindObject,
		ChildCount: 0, DescendantCount: 0,
		LeftSibling: NullNodeKey, RightSibling: NullNodeKey,
		FirstChild: NullNodeKey, LastChild: InvalidKeyForTypeCheck,
	}
	bytes1 := canonicalHashBytes(base)

	// A second HashInput that also carries the sentinel must produce identical hash
	// bytes, and the sentinel must be omitted from the stream entirely: the stream with a
	// real LastChild is exactly one 8-byte long longer.
	other := base
	other.LastChild = InvalidKeyForTypeCheck
	bytes2 := canonicalHashBytes(other)
	require.Equal(t, bytes1, bytes2)

	withRealLastChild := base
	withRealLastChild.LastChild = 7
	bytes3 := canonicalHashBytes(withRealLastChild)
	require.NotEqual(t, bytes1, bytes3, "a real LastChild value must change the hash stream")
	require.Len(t, bytes1, len(bytes3)-8, "the sentinel LastChild must be left out of the stream")

	anotherRealLastChild := base
	anotherRealLastChild.LastChild = 99
	bytes4 := canonicalHashBytes(anotherRealLastChild)
	require.NotEqual(t, bytes3, bytes4, "two distinct real LastChild values must hash differently")
}

func TestCanonicalHashDiffersOnPayload(t *testing.T) {
	a := HashInput{NodeKey: 1, Kind: KindStringValue, Payload: []byte("a")}
	b := HashInput{NodeKey: 1, Kind: KindStringValue, Payload: []byte("b")}
	require.NotEqual(t, computeHash(DefaultHashFunc, a), computeHash(DefaultHashFunc, b))
}

func TestCanonicalHashCoversNameKeyForObjectKey(t *testing.T) {
	a := HashInput{NodeKey: 1, Kind: KindObjectKey, NameKey: 10}
	b := HashInput{NodeKey: 1, Kind: KindObjectKey, NameKey: 20}
	require.NotEqual(t, computeHash(DefaultHashFunc, a), computeHash(DefaultHashFunc, b))
}

package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContainer(nodeKey NodeKey) *ContainerNode {
	cfg := DefaultResourceConfig()
	n := NewContainerNode(KindObject, nodeKey, cfg)
	n.SetParentKey(1)
	n.SetRightSibling(NullNodeKey)
	n.SetLeftSibling(NullNodeKey)
	n.SetFirstChild(nodeKey + 1)
	n.SetLastChild(nodeKey + 5)
	n.SetPrevRevision(1)
	n.SetLastModRevision(2)
	n.SetChildCount(3)
	n.SetDescendantCount(9)
	return n
}

func TestContainerSerializeDeserializeRoundTrip(t *testing.T) {
	nodeKey := NodeKey(100)
	n := newTestContainer(nodeKey)

	s := newSink()
	n.WriteTo(s)

	cfg := DefaultResourceConfig()
	got := ReadContainerNode(s.Bytes(), KindObject, nodeKey, nil, cfg)

	require.Equal(t, n.ParentKey(), got.ParentKey())
	require.Equal(t, n.FirstChild(), got.FirstChild())
	require.Equal(t, n.LastChild(), got.LastChild())
	require.Equal(t, n.ChildCount(), got.ChildCount())
	require.Equal(t, n.DescendantCount(), got.DescendantCount())
	require.Equal(t, n.PrevRevision(), got.PrevRevision())
	require.Equal(t, n.LastModRevision(), got.LastModRevision())
	require.Equal(t, n.GetHash(), got.GetHash())
}

func TestContainerHashStableAcrossModes(t *testing.T) {
	nodeKey := NodeKey(100)
	owned := newTestContainer(nodeKey)
	ownedHash := owned.GetHash()

	s := newSink()
	owned.WriteTo(s)

	page := NewInMemoryPage(s.Bytes())
	bound := &ContainerNode{}
	bound.Bind(page, 0, 0)
	bound.kind = KindObject
	bound.nodeKey = nodeKey
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction
	require.Equal(t, ownedHash, bound.GetHash())

	lazy := ReadContainerNode(s.Bytes(), KindObject, nodeKey, nil, DefaultResourceConfig())
	require.Equal(t, ownedHash, lazy.GetHash())
}

func TestContainerInPlaceSetterKeepsBound(t *testing.T) {
	nodeKey := NodeKey(1000)
	n := newTestContainer(nodeKey)
	s := newSink()
	n.WriteTo(s)

	page := NewInMemoryPage(s.Bytes())
	bound := &ContainerNode{}
	bound.Bind(page, 0, 0)
	bound.kind = KindObject
	bound.nodeKey = nodeKey
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	bound.SetChildCount(4) // same encoded width (both single-byte svarlong)
	require.True(t, bound.IsBound())
	require.Equal(t, uint64(4), bound.ChildCount())
}

func TestContainerSetterForcesMaterializeOnWidthGrowth(t *testing.T) {
	nodeKey := NodeKey(1000)
	n := newTestContainer(nodeKey)
	s := newSink()
	n.WriteTo(s)

	page := NewInMemoryPage(s.Bytes())
	bound := &ContainerNode{}
	bound.Bind(page, 0, 0)
	bound.kind = KindObject
	bound.nodeKey = nodeKey
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	bound.SetDescendantCount(1 << 40) // forces a much wider encoding
	require.False(t, bound.IsBound(), "a width-incompatible write must materialize to Owned")
	require.Equal(t, uint64(1<<40), bound.DescendantCount())
}

func TestContainerUnbindEquivalence(t *testing.T) {
	nodeKey := NodeKey(100)
	n := newTestContainer(nodeKey)
	s := newSink()
	n.WriteTo(s)

	page := NewInMemoryPage(s.Bytes())
	bound := &ContainerNode{}
	bound.Bind(page, 0, 0)
	bound.kind = KindObject
	bound.nodeKey = nodeKey
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	bound.Unbind()
	require.False(t, bound.IsBound())
	require.Equal(t, n.ParentKey(), bound.ParentKey())
	require.Equal(t, n.GetHash(), bound.GetHash())
}

func TestContainerToSnapshotIsIndependent(t *testing.T) {
	nodeKey := NodeKey(100)
	n := newTestContainer(nodeKey)
	s := newSink()
	n.WriteTo(s)

	page := NewInMemoryPage(s.Bytes())
	bound := &ContainerNode{}
	bound.Bind(page, 0, 0)
	bound.kind = KindObject
	bound.nodeKey = nodeKey
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	snap := bound.ToSnapshot()
	require.False(t, snap.IsBound())

	// Mutating the page afterwards must not affect the snapshot's fields.
	page.segment[8] = 0xFF
	require.Equal(t, n.FirstChild(), snap.FirstChild())
}

func TestContainerChildCountOmittedWhenNotStored(t *testing.T) {
	cfg := DefaultResourceConfig()
	cfg.StoreChildCount = false

	nodeKey := NodeKey(100)
	n := NewContainerNode(KindObject, nodeKey, cfg)
	n.SetParentKey(1)
	n.SetRightSibling(NullNodeKey)
	n.SetLeftSibling(NullNodeKey)
	n.SetFirstChild(nodeKey + 1)
	n.SetLastChild(nodeKey + 5)
	n.SetPrevRevision(1)
	n.SetLastModRevision(2)
	n.SetChildCount(3)
	n.SetDescendantCount(9)

	s := newSink()
	n.WriteTo(s)

	got := ReadContainerNode(s.Bytes(), KindObject, nodeKey, nil, cfg)
	require.Equal(t, uint64(0), got.ChildCount(), "childCount must not be persisted when StoreChildCount is false")
	require.Equal(t, n.DescendantCount(), got.DescendantCount())
}

func TestContainerEmptyDefaultsMatchExplicitNullLastChild(t *testing.T) {
	cfg := DefaultResourceConfig()
	fresh := NewContainerNode(KindObject, 100, cfg)
	fresh.SetParentKey(1)
	fresh.SetRightSibling(NullNodeKey)
	fresh.SetLeftSibling(NullNodeKey)
	fresh.SetFirstChild(NullNodeKey)
	fresh.SetPrevRevision(0)
	fresh.SetLastModRevision(0)
	fresh.SetChildCount(0)
	fresh.SetDescendantCount(0)

	explicit := NewContainerNode(KindObject, 100, cfg)
	explicit.SetParentKey(1)
	explicit.SetRightSibling(NullNodeKey)
	explicit.SetLeftSibling(NullNodeKey)
	explicit.SetFirstChild(NullNodeKey)
	explicit.SetLastChild(NullNodeKey)
	explicit.SetPrevRevision(0)
	explicit.SetLastModRevision(0)
	explicit.SetChildCount(0)
	explicit.SetDescendantCount(0)

	require.Equal(t, explicit.GetHash(), fresh.GetHash(), "an untouched empty container must hash the same as one with lastChild explicitly set to NullNodeKey")
}

func TestContainerLazyStructuralReadDoesNotTouchMetadata(t *testing.T) {
	nodeKey := NodeKey(100)
	n := newTestContainer(nodeKey)
	s := newSink()
	n.WriteTo(s)

	lazy := ReadContainerNode(s.Bytes(), KindObject, nodeKey, nil, DefaultResourceConfig())
	require.False(t, lazy.metadataParsed, "reading structural fields alone must not parse metadata")
	_ = lazy.ChildCount()
	_ = lazy.FirstChild()
	require.False(t, lazy.metadataParsed)

	_ = lazy.PrevRevision()
	require.True(t, lazy.metadataParsed)
}

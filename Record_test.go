package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordWriterReaderRoundTrip(t *testing.T) {
	nodeKey := NodeKey(100)
	w := newRecordWriter(KindObject)
	w.writeDelta(containerParentKey, NullNodeKey, nodeKey)
	w.writeDelta(containerRightSibling, NodeKey(150), nodeKey)
	w.writeDelta(containerLeftSibling, NullNodeKey, nodeKey)
	w.writeDelta(containerFirstChild, NodeKey(101), nodeKey)
	w.writeDelta(containerLastChild, NodeKey(120), nodeKey)
	w.writeSigned(containerPrevRevision, 3)
	w.writeSigned(containerLastModRevision, 4)
	w.writeLong(containerHash, 0xCAFEBABE)
	w.writeSignedLong(containerChildCount, 5)
	w.writeSignedLong(containerDescendantCount, 20)

	out := newSink()
	n := w.finish(out)
	require.Equal(t, n, len(out.Bytes()))
	require.Equal(t, Tag(KindObject), out.Bytes()[0])

	r := newRecordReader(KindObject, out.Bytes(), 0)
	pk, err := r.readDelta(containerParentKey, nodeKey)
	require.NoError(t, err)
	require.Equal(t, NullNodeKey, pk)

	rs, err := r.readDelta(containerRightSibling, nodeKey)
	require.NoError(t, err)
	require.Equal(t, NodeKey(150), rs)

	prev, err := r.readSigned(containerPrevRevision)
	require.NoError(t, err)
	require.Equal(t, int32(3), prev)

	hash, err := r.readLong(containerHash)
	require.NoError(t, err)
	require.Equal(t, uint64(0xCAFEBABE), hash)

	cc, err := r.readSignedLong(containerChildCount)
	require.NoError(t, err)
	require.Equal(t, int64(5), cc)
}

func TestRecordOffsetsStrictlyIncreasing(t *testing.T) {
	nodeKey := NodeKey(100)
	w := newRecordWriter(KindObject)
	w.writeDelta(containerParentKey, NodeKey(1), nodeKey)
	w.writeDelta(containerRightSibling, NodeKey(2), nodeKey)
	w.writeDelta(containerLeftSibling, NodeKey(3), nodeKey)
	w.writeDelta(containerFirstChild, NodeKey(4), nodeKey)
	w.writeDelta(containerLastChild, NodeKey(5), nodeKey)
	w.writeSigned(containerPrevRevision, 1)
	w.writeSigned(containerLastModRevision, 2)
	w.writeLong(containerHash, 1)
	w.writeSignedLong(containerChildCount, 1)
	w.writeSignedLong(containerDescendantCount, 1)

	prev := -1
	for _, off := range w.offsets {
		require.Greater(t, int(off), prev)
		prev = int(off)
	}
}

func TestInPlaceWidthCheckDelta(t *testing.T) {
	nodeKey := NodeKey(1000)
	w := newRecordWriter(KindObject)
	w.writeDelta(containerParentKey, NodeKey(900), nodeKey) // delta -100, 2 bytes
	w.writeDelta(containerRightSibling, NullNodeKey, nodeKey)
	w.writeDelta(containerLeftSibling, NullNodeKey, nodeKey)
	w.writeDelta(containerFirstChild, NullNodeKey, nodeKey)
	w.writeDelta(containerLastChild, NullNodeKey, nodeKey)
	w.writeSigned(containerPrevRevision, 0)
	w.writeSigned(containerLastModRevision, 0)
	w.writeLong(containerHash, 0)
	w.writeSignedLong(containerChildCount, 0)
	w.writeSignedLong(containerDescendantCount, 0)

	out := newSink()
	w.finish(out)
	page := NewInMemoryPage(out.Bytes())

	r := newRecordReader(KindObject, page.Bytes(), 0)
	ok, err := r.deltaWidthOK(containerParentKey, int64(NodeKey(901)), int64(nodeKey))
	require.NoError(t, err)
	require.True(t, ok, "small delta shift within the same encoded width must stay in-place")

	ok2, err := r.deltaWidthOK(containerParentKey, int64(NodeKey(2_000_000)), int64(nodeKey))
	require.NoError(t, err)
	require.False(t, ok2, "a delta that grows past the current width must force materialization")
}

func TestWriteLongInPlaceIdempotent(t *testing.T) {
	w := newRecordWriter(KindObject)
	for i := 0; i < 9; i++ {
		w.writeDelta(i, NullNodeKey, NodeKey(1))
	}
	w.writeLong(containerHash, 42)
	out := newSink()
	w.finish(out)
	page := NewInMemoryPage(out.Bytes())

	r := newRecordReader(KindObject, page.Bytes(), 0)
	r.writeLongInPlace(page, containerHash, 0xFEEDFACE)

	got, err := r.readLong(containerHash)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFEEDFACE), got)
}

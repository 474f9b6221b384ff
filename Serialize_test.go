package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeserializeNodeDispatchesByShape(t *testing.T) {
	cfg := DefaultResourceConfig()

	container := NewContainerNode(KindArray, 10, cfg)
	container.SetParentKey(NullNodeKey)
	container.SetRightSibling(NullNodeKey)
	container.SetLeftSibling(NullNodeKey)
	container.SetFirstChild(11)
	container.SetLastChild(12)
	container.SetPrevRevision(1)
	container.SetLastModRevision(1)
	container.SetChildCount(2)
	container.SetDescendantCount(2)

	s := newSink()
	SerializeNode(container, s)

	p, err := DeserializeNode(s.Bytes(), 10, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, KindArray, p.Kind())
	_, ok := p.(*ContainerNode)
	require.True(t, ok)
}

func TestDeserializeNodeUnknownTag(t *testing.T) {
	_, err := DeserializeNode([]byte{0xEE}, 1, nil, DefaultResourceConfig())
	require.Error(t, err)
}

func TestDeserializeNodeEmptyRecord(t *testing.T) {
	_, err := DeserializeNode(nil, 1, nil, DefaultResourceConfig())
	require.Error(t, err)
}

func TestWriteFramedNodeRoundTrip(t *testing.T) {
	cfg := DefaultResourceConfig()
	v := NewValueNode(KindNumberValue, 5, cfg)
	v.SetParentKey(1)
	v.SetRightSibling(NullNodeKey)
	v.SetLeftSibling(NullNodeKey)
	v.SetPrevRevision(1)
	v.SetLastModRevision(1)
	v.SetNumber(NarrowestNumber(99))

	buf := newSink()
	WriteFramedNode(v, buf)
	// append a second frame to prove the next-offset alignment is respected
	WriteFramedNode(v, buf)

	p1, next, err := ReadFramedNode(buf.Bytes(), 0, 5, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, KindNumberValue, p1.Kind())

	p2, _, err := ReadFramedNode(buf.Bytes(), next, 5, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, p1.GetHash(), p2.GetHash())
}

func TestBindNodeDispatchesByType(t *testing.T) {
	cfg := DefaultResourceConfig()
	v := NewValueNode(KindBooleanValue, 1, cfg)
	v.SetParentKey(NullNodeKey)
	v.SetRightSibling(NullNodeKey)
	v.SetLeftSibling(NullNodeKey)
	v.SetPrevRevision(0)
	v.SetLastModRevision(0)
	v.SetBoolean(true)

	s := newSink()
	v.WriteTo(s)
	page := NewInMemoryPage(s.Bytes())

	bound := &ValueNode{}
	BindNode(bound, KindBooleanValue, page, 0, 0)
	require.True(t, bound.IsBound())
}

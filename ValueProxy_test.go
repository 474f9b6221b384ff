package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestValue(kind Kind, nodeKey NodeKey) *ValueNode {
	cfg := DefaultResourceConfig()
	n := NewValueNode(kind, nodeKey, cfg)
	n.SetParentKey(1)
	if n.hasSiblings() {
		n.SetRightSibling(NullNodeKey)
		n.SetLeftSibling(NullNodeKey)
	}
	n.SetPrevRevision(1)
	n.SetLastModRevision(2)
	return n
}

func TestValueNumberRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindNumberValue, KindObjectNumberValue} {
		n := newTestValue(kind, 100)
		n.SetNumber(NarrowestNumber(-42))

		s := newSink()
		n.WriteTo(s)

		got := ReadValueNode(s.Bytes(), kind, 100, nil, DefaultResourceConfig())
		require.Equal(t, n.ParentKey(), got.ParentKey())
		require.Equal(t, n.Number(), got.Number())
		require.Equal(t, n.GetHash(), got.GetHash())
	}
}

func TestValueStringRoundTripUncompressed(t *testing.T) {
	n := newTestValue(KindStringValue, 100)
	n.SetString(StringPayload{Compressed: false, Bytes: []byte("hello")})

	s := newSink()
	n.WriteTo(s)

	got := ReadValueNode(s.Bytes(), KindStringValue, 100, nil, DefaultResourceConfig())
	require.Equal(t, "hello", got.String())
}

func TestValueStringRoundTripCompressed(t *testing.T) {
	tbl := NewFSSTSymbolTable(map[byte][]byte{0x01: []byte("ell")})
	n := newTestValue(KindStringValue, 100)
	compressed := tbl.Compress([]byte("hello"))
	n.SetString(StringPayload{Compressed: true, Bytes: compressed})

	s := newSink()
	n.WriteTo(s)

	page := NewInMemoryPageWithSymbols(s.Bytes(), tbl)
	bound := &ValueNode{}
	bound.Bind(KindStringValue, page, 0, 0)
	bound.nodeKey = 100
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	require.Equal(t, "hello", bound.String())
}

func TestValueBooleanRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindBooleanValue, KindObjectBooleanValue} {
		n := newTestValue(kind, 100)
		n.SetBoolean(true)

		s := newSink()
		n.WriteTo(s)

		got := ReadValueNode(s.Bytes(), kind, 100, nil, DefaultResourceConfig())
		require.True(t, got.Boolean())
	}
}

func TestValueNullRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindNullValue, KindObjectNullValue} {
		n := newTestValue(kind, 100)

		s := newSink()
		written := n.WriteTo(s)
		require.Greater(t, written, 0)

		got := ReadValueNode(s.Bytes(), kind, 100, nil, DefaultResourceConfig())
		require.Equal(t, n.ParentKey(), got.ParentKey())
	}
}

func TestValueTopLevelHasNoSiblingsForObjectChild(t *testing.T) {
	n := newTestValue(KindObjectStringValue, 100)
	require.Equal(t, NullNodeKey, n.RightSibling())
	require.Equal(t, NullNodeKey, n.LeftSibling())
}

func TestValueLazyDoesNotDecodePayloadUntilTouched(t *testing.T) {
	n := newTestValue(KindNumberValue, 100)
	n.SetNumber(NarrowestNumber(12345))

	s := newSink()
	n.WriteTo(s)

	got := ReadValueNode(s.Bytes(), KindNumberValue, 100, nil, DefaultResourceConfig())
	require.False(t, got.valueParsed, "reading structural fields alone must not decode the payload")
	_ = got.Number()
	require.True(t, got.valueParsed)
}

func TestValueHashOmittedWhenConfiguredNone(t *testing.T) {
	cfg := &ResourceConfig{HashType: HashTypeNone, NodeHashFunction: DefaultHashFunc}
	n := NewValueNode(KindNumberValue, 100, cfg)
	n.SetParentKey(1)
	n.SetRightSibling(NullNodeKey)
	n.SetLeftSibling(NullNodeKey)
	n.SetPrevRevision(1)
	n.SetLastModRevision(1)
	n.SetNumber(NarrowestNumber(7))

	s := newSink()
	n.WriteTo(s)

	got := ReadValueNode(s.Bytes(), KindNumberValue, 100, nil, cfg)
	require.Equal(t, n.GetHash(), got.GetHash())
}

func TestValueSetPayloadForcesOwned(t *testing.T) {
	n := newTestValue(KindNumberValue, 100)
	n.SetNumber(NarrowestNumber(1))

	s := newSink()
	n.WriteTo(s)
	page := NewInMemoryPage(s.Bytes())

	bound := &ValueNode{}
	bound.Bind(KindNumberValue, page, 0, 0)
	bound.nodeKey = 100
	bound.cfg = DefaultResourceConfig()
	bound.hashFn = bound.cfg.NodeHashFunction

	bound.SetNumber(NarrowestNumber(2))
	require.False(t, bound.IsBound())
	require.Equal(t, NarrowestNumber(2), bound.Number())
}

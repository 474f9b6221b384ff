package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindFromTagRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindJSONDocument, KindObject, KindArray, KindObjectKey,
		KindStringValue, KindNumberValue, KindBooleanValue, KindNullValue,
		KindObjectStringValue, KindObjectNumberValue, KindObjectBooleanValue, KindObjectNullValue,
	}
	for _, k := range kinds {
		got, err := KindFromTag(Tag(k), 0)
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
}

func TestKindFromTagUnknown(t *testing.T) {
	_, err := KindFromTag(0xFE, 12)
	require.Error(t, err)
	var corrupt *CorruptRecordErr
	require.ErrorAs(t, err, &corrupt)
	require.Equal(t, int64(12), corrupt.Offset)
}

func TestFieldCountByShape(t *testing.T) {
	require.Equal(t, 10, FieldCount(KindObject))
	require.Equal(t, 10, FieldCount(KindObjectKey))
	require.Equal(t, 7, FieldCount(KindStringValue))
	require.Equal(t, 5, FieldCount(KindObjectStringValue))
}

func TestKindShapeClassification(t *testing.T) {
	require.True(t, KindNumberValue.isValueKind())
	require.True(t, KindObjectNumberValue.isValueKind())
	require.False(t, KindObject.isValueKind())
	require.False(t, KindObjectKey.isValueKind())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "OBJECT", KindObject.String())
	require.Equal(t, "UNKNOWN_KIND", Kind(0).String())
}

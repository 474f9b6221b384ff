package nodestore

//============================================= Node Kind Registry
//
// Every concrete node variant, its one-byte tag, field count, and dispatch for
// read/write of that variant (§4.1). Dispatch is by the tag byte: a record read begins
// with a one-byte read, then the kind's deserializer takes over; a write begins by
// emitting the tag, then the kind's serializer.

// Kind enumerates the closed set of node kinds (§3 "Node kinds (closed enumeration)").
type Kind uint8

const (
	KindJSONDocument Kind = iota + 1
	KindObject
	KindArray
	KindObjectKey

	KindStringValue
	KindNumberValue
	KindBooleanValue
	KindNullValue

	KindObjectStringValue
	KindObjectNumberValue
	KindObjectBooleanValue
	KindObjectNullValue
)

// kindNames mirrors the enumeration for debugging/CLI output.
var kindNames = map[Kind]string{
	KindJSONDocument:      "JSON_DOCUMENT",
	KindObject:            "OBJECT",
	KindArray:             "ARRAY",
	KindObjectKey:         "OBJECT_KEY",
	KindStringValue:       "STRING_VALUE",
	KindNumberValue:       "NUMBER_VALUE",
	KindBooleanValue:      "BOOLEAN_VALUE",
	KindNullValue:         "NULL_VALUE",
	KindObjectStringValue: "OBJECT_STRING_VALUE",
	KindObjectNumberValue: "OBJECT_NUMBER_VALUE",
	KindObjectBooleanValue: "OBJECT_BOOLEAN_VALUE",
	KindObjectNullValue:   "OBJECT_NULL_VALUE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN_KIND"
}

// shape classifies a kind by its field layout (four layouts), so the registry can
// dispatch to one of the three proxy families instead of one type per kind; ValueNode
// serves both value layouts (§9 "Polymorphism over node kinds": a tagged variant of
// proxy types).
type shape uint8

const (
	shapeContainer shape = iota // JSON_DOCUMENT, OBJECT, ARRAY
	shapeObjectKey              // OBJECT_KEY
	shapeTopLevelValue          // STRING_VALUE, NUMBER_VALUE, BOOLEAN_VALUE, NULL_VALUE
	shapeObjectChildValue       // OBJECT_*_VALUE
)

func (k Kind) shape() shape {
	switch k {
	case KindJSONDocument, KindObject, KindArray:
		return shapeContainer
	case KindObjectKey:
		return shapeObjectKey
	case KindStringValue, KindNumberValue, KindBooleanValue, KindNullValue:
		return shapeTopLevelValue
	case KindObjectStringValue, KindObjectNumberValue, KindObjectBooleanValue, KindObjectNullValue:
		return shapeObjectChildValue
	default:
		return shapeContainer
	}
}

// isValueKind reports whether k is any of the 8 leaf value kinds (top-level or
// object-child), used by the proxy core to decide whether a mutation forces Owned.
func (k Kind) isValueKind() bool {
	s := k.shape()
	return s == shapeTopLevelValue || s == shapeObjectChildValue
}

// FieldCount returns FIELD_COUNT(kind): the number of offset-table entries a record of
// this kind carries (§4.1).
func FieldCount(k Kind) int {
	switch k.shape() {
	case shapeContainer:
		return 10 // parentKey, rightSib, leftSib, firstChild, lastChild, prevRev, lastModRev, hash, childCount, descendantCount
	case shapeObjectKey:
		return 10 // parentKey, rightSib, leftSib, firstChild, nameKey, pathNodeKey, prevRev, lastModRev, hash, descendantCount
	case shapeTopLevelValue:
		return 7 // parentKey, rightSib, leftSib, prevRev, lastModRev, hash, payload
	case shapeObjectChildValue:
		return 5 // parentKey, prevRev, lastModRev, hash, payload
	default:
		return 0
	}
}

// Tag returns tag(k): the one-byte value stored as the first byte of every record of
// this kind.
func Tag(k Kind) byte { return byte(k) }

// KindFromTag maps a tag byte back to its Kind, failing with CorruptRecord for any tag
// outside the closed enumeration (§4.1 Failure).
func KindFromTag(tag byte, offset int64) (Kind, error) {
	k := Kind(tag)
	if _, ok := kindNames[k]; !ok {
		return 0, NewCorruptRecord(tag, offset, "unknown kind tag")
	}
	return k, nil
}

package nodestore

import (
	"fmt"

	"github.com/pkg/errors"
)

// CorruptRecordErr is raised when the kind registry sees an unknown tag byte, a bad
// offset-table entry, or a record that truncates mid-field.
type CorruptRecordErr struct {
	Tag    byte
	Offset int64
	Reason string
}

func (e *CorruptRecordErr) Error() string {
	return fmt.Sprintf("corrupt record: tag=0x%02x offset=%d: %s", e.Tag, e.Offset, e.Reason)
}

// NewCorruptRecord wraps a corrupt-record sentinel with a stack trace, following the
// pack's convention (pkg/errors) of attaching a stack at the point a raw decode failure
// is promoted to a typed error.
func NewCorruptRecord(tag byte, offset int64, reason string) error {
	return errors.WithStack(&CorruptRecordErr{Tag: tag, Offset: offset, Reason: reason})
}

// TruncatedRecordErr is raised when the source runs out of bytes mid field-decode.
type TruncatedRecordErr struct {
	Offset int64
	Field  string
}

func (e *TruncatedRecordErr) Error() string {
	return fmt.Sprintf("truncated record: offset=%d field=%s", e.Offset, e.Field)
}

func NewTruncatedRecord(offset int64, field string) error {
	return errors.WithStack(&TruncatedRecordErr{Offset: offset, Field: field})
}

// VarintOverflowErr is raised when a varint decode sees more continuation bytes than the
// target width allows.
type VarintOverflowErr struct {
	Offset int64
}

func (e *VarintOverflowErr) Error() string {
	return fmt.Sprintf("varint overflow at offset=%d", e.Offset)
}

func NewVarintOverflow(offset int64) error {
	return errors.WithStack(&VarintOverflowErr{Offset: offset})
}

// UnknownNumberTypeErr is raised when a number payload carries a type tag outside 0..5.
type UnknownNumberTypeErr struct {
	Tag byte
}

func (e *UnknownNumberTypeErr) Error() string {
	return fmt.Sprintf("unknown number type tag: 0x%02x", e.Tag)
}

func NewUnknownNumberType(tag byte) error {
	return errors.WithStack(&UnknownNumberTypeErr{Tag: tag})
}

// ErrUnknownLazySource signals a Lazy proxy's deferred materialization found a source
// kind it does not recognize. This is a programmer error, never a storage corruption.
var ErrUnknownLazySource = errors.New("unknown lazy source")

// ErrNotBound signals that an operation needs a proxy in Bound state. No function in
// this package returns it: IsBoundTo reports a bool, and the in-place width helpers
// report false for a field they cannot reach.
var ErrNotBound = errors.New("proxy is not bound to a page")

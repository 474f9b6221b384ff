package nodestore

//============================================= Node Record Format
//
// record := kindByte offsetTable dataRegion padding (§6 "Record byte format"). Each
// offset-table entry is a u8 giving the byte distance from the start of the data region
// to that field's first byte; 0xFF means "field absent" where the kind's descriptor
// permits it (invariant 1). recordWriter accumulates the data region while recording
// each field's relative offset, then back-patches the offset table once every field has
// been written (§4.4 "Serialize"); recordReader is the matching random-access view over
// an already-serialized record, used by Bound-state getters.

// offsetAbsent is the 0xFF sentinel meaning "field absent in this record" (§4.3).
const offsetAbsent = 0xFF

// recordWriter builds one record's data region while tracking the per-field relative
// offsets that fill the offset table.
type recordWriter struct {
	kind    Kind
	offsets []byte
	data    *sink
}

func newRecordWriter(kind Kind) *recordWriter {
	fc := FieldCount(kind)
	offsets := make([]byte, fc)
	for i := range offsets {
		offsets[i] = offsetAbsent
	}
	return &recordWriter{kind: kind, offsets: offsets, data: newSink()}
}

// mark records the current data-region length as field idx's relative offset. Offsets
// are filled in field-index order as each field is written, so invariant 7 ("offsets are
// strictly increasing within the data region") holds by construction as long as callers
// write fields in ascending idx order.
func (w *recordWriter) mark(idx int) {
	pos := len(w.data.buf)
	if pos > 254 {
		// A data region taller than 255 bytes can still exist (long strings), but only
		// fields reachable through the table must stay addressable; by construction the
		// long payload is always the last field written, so this never fires for a
		// non-final field.
		pos = 254
	}
	w.offsets[idx] = byte(pos)
}

func (w *recordWriter) writeDelta(idx int, target, base NodeKey) {
	w.mark(idx)
	writeDelta(w.data, int64(target), int64(base))
}

func (w *recordWriter) writeSigned(idx int, v int32) {
	w.mark(idx)
	writeSigned(w.data, v)
}

func (w *recordWriter) writeSignedLong(idx int, v int64) {
	w.mark(idx)
	writeSignedLong(w.data, v)
}

func (w *recordWriter) writeLong(idx int, v uint64) {
	w.mark(idx)
	writeLong(w.data, v)
}

func (w *recordWriter) writeRaw(idx int, raw []byte) {
	w.mark(idx)
	w.data.writeBytes(raw)
}

func (w *recordWriter) writeNumberPayload(idx int, v NumberValue) {
	w.mark(idx)
	encodeNumberPayload(w.data, v)
}

func (w *recordWriter) writeStringPayload(idx int, v StringPayload) {
	w.mark(idx)
	encodeStringPayload(w.data, v)
}

func (w *recordWriter) writeBooleanPayload(idx int, v bool) {
	w.mark(idx)
	encodeBooleanPayload(w.data, v)
}

// writeNullPayload marks field idx present with a zero-length body: NULL_VALUE kinds
// carry no payload bytes, the kind tag alone conveys the value (§4.3).
func (w *recordWriter) writeNullPayload(idx int) {
	w.mark(idx)
}

// finish emits [kind][offsetTable][dataRegion] into out and returns the total bytes
// written (§4.4 step 4/5: "back-patch the offset table" then "return total bytes
// written").
func (w *recordWriter) finish(out *sink) int {
	start := len(out.buf)
	out.writeByte(Tag(w.kind))
	out.writeBytes(w.offsets)
	out.writeBytes(w.data.Bytes())
	return len(out.buf) - start
}

// recordReader is the random-access counterpart, reading an already-serialized record
// either out of a Bound page segment or out of a materialized byte slice.
type recordReader struct {
	kind            Kind
	segment         []byte
	recordBase      int
	dataRegionStart int
}

func newRecordReader(kind Kind, segment []byte, recordBase int) *recordReader {
	return &recordReader{
		kind:            kind,
		segment:         segment,
		recordBase:      recordBase,
		dataRegionStart: recordBase + 1 + FieldCount(kind),
	}
}

// fieldOffset returns the absolute offset of field idx's first byte in segment, and
// whether it is present at all (§4.5 "Bound" getters: "read through the offset table at
// recordBase + 1 + fieldIndex").
func (r *recordReader) fieldOffset(idx int) (int, bool) {
	rel := r.segment[r.recordBase+1+idx]
	if rel == offsetAbsent {
		return 0, false
	}
	return r.dataRegionStart + int(rel), true
}

func (r *recordReader) readDelta(idx int, base NodeKey) (NodeKey, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return NullNodeKey, nil
	}
	v, err := decodeDeltaAt(r.segment, off, int64(base))
	if err != nil {
		return 0, err
	}
	return NodeKey(v), nil
}

func (r *recordReader) readSigned(idx int) (int32, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return 0, nil
	}
	return decodeSignedAt(r.segment, off)
}

func (r *recordReader) readSignedLong(idx int) (int64, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return 0, nil
	}
	return decodeSignedLongAt(r.segment, off)
}

// payloadSource returns a read cursor positioned at field idx's first byte, for
// variable-length fields (string/number payloads) that decode themselves rather than
// being read at a single fixed offset.
func (r *recordReader) payloadSource(idx int) (*source, bool) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return nil, false
	}
	return &source{buf: r.segment, pos: off}, true
}

func (r *recordReader) readLong(idx int) (uint64, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return 0, nil
	}
	return readLong(r.segment, off)
}

//--------------------------------------------- in-place width checks (§4.5 setters)
//
// A Bound setter attempts the cheap path first: if the new encoding's width equals the
// field's current on-page width, overwrite in place; otherwise the caller must
// materialize every field and transition to Owned (invariant 6).

func (r *recordReader) deltaWidthOK(idx int, newTarget, base int64) (bool, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return false, nil
	}
	oldWidth, err := readDeltaEncodedWidth(r.segment, off)
	if err != nil {
		return false, err
	}
	return oldWidth == computeDeltaEncodedWidth(newTarget, base), nil
}

func (r *recordReader) writeDeltaInPlace(page PageMemory, idx int, newTarget, base int64) {
	off, _ := r.fieldOffset(idx)
	s := newSink()
	writeDelta(s, newTarget, base)
	page.WriteAt(off, s.Bytes())
}

func (r *recordReader) signedWidthOK(idx int, newVal int32) (bool, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return false, nil
	}
	oldWidth, err := readSignedVarintWidth(r.segment, off)
	if err != nil {
		return false, err
	}
	return oldWidth == computeSignedEncodedWidth(newVal), nil
}

func (r *recordReader) writeSignedInPlace(page PageMemory, idx int, newVal int32) {
	off, _ := r.fieldOffset(idx)
	s := newSink()
	writeSigned(s, newVal)
	page.WriteAt(off, s.Bytes())
}

func (r *recordReader) signedLongWidthOK(idx int, newVal int64) (bool, error) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return false, nil
	}
	oldWidth, err := readDeltaEncodedWidth(r.segment, off) // same varlong shape as delta
	if err != nil {
		return false, err
	}
	return oldWidth == computeSignedLongEncodedWidth(newVal), nil
}

func (r *recordReader) writeSignedLongInPlace(page PageMemory, idx int, newVal int64) {
	off, _ := r.fieldOffset(idx)
	s := newSink()
	writeSignedLong(s, newVal)
	page.WriteAt(off, s.Bytes())
}

func (r *recordReader) writeLongInPlace(page PageMemory, idx int, v uint64) {
	off, ok := r.fieldOffset(idx)
	if !ok {
		return
	}
	var buf [8]byte
	s := sink{buf: buf[:0]}
	writeLong(&s, v)
	page.WriteAt(off, s.Bytes())
}

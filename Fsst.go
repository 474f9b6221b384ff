package nodestore

//============================================= FSST symbol table reference
//
// FSST (byte-level symbol-substitution compressor) symbol tables are owned by the
// enclosing page, not stored per record (§4.3 "String payload"). This module does not
// build symbol tables (out of scope per §1: "FSST symbol-table construction"); it only
// carries the reference a bound proxy needs to decompress a compressed string payload,
// and the obligation (§9, Open Questions) that a proxy bound to a compressed string must
// materialize its value before the owning page is evicted.

// FSSTSymbolTable is an immutable, page-owned table mapping single-byte codes to
// multi-byte symbols. Shared by reference (§5 "Shared resources").
type FSSTSymbolTable struct {
	symbols [256][]byte
}

// NewFSSTSymbolTable builds a symbol table from a code->symbol mapping. Codes outside
// 0..255 or without an entry decode as a literal single byte.
func NewFSSTSymbolTable(symbols map[byte][]byte) *FSSTSymbolTable {
	t := &FSSTSymbolTable{}
	for code, sym := range symbols {
		t.symbols[code] = sym
	}
	return t
}

// Decompress expands FSST-coded bytes back to their original form. Each input byte is a
// code; a code with no registered symbol decodes to itself (literal escape).
func (t *FSSTSymbolTable) Decompress(coded []byte) []byte {
	if t == nil {
		return coded
	}
	out := make([]byte, 0, len(coded)*2)
	for _, code := range coded {
		if sym := t.symbols[code]; sym != nil {
			out = append(out, sym...)
		} else {
			out = append(out, code)
		}
	}
	return out
}

// Compress is the inverse of Decompress using a simple greedy longest-match scan; not a
// full FSST compressor (symbol-table construction is out of scope), just enough to round
// trip the symbols a page already carries.
func (t *FSSTSymbolTable) Compress(raw []byte) []byte {
	if t == nil {
		return raw
	}

	reverse := make(map[string]byte, 256)
	for code, sym := range t.symbols {
		if sym != nil {
			reverse[string(sym)] = byte(code)
		}
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		matched := false
		for length := len(raw) - i; length > 1; length-- {
			if code, ok := reverse[string(raw[i:i+length])]; ok {
				out = append(out, code)
				i += length
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, raw[i])
			i++
		}
	}
	return out
}

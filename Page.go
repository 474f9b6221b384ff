package nodestore

//============================================= Page memory accessor
//
// The consumed interface from the page cache (§6 "Page memory accessor", out of scope
// per §1): capability to read/write bytes at an offset and copy byte spans, with no
// concurrency contract beyond §5 (a page is mutated exclusively by the thread holding
// its write lease; multiple read-only proxies may bind concurrently). The node layer
// never owns a Page; it only aliases one for the lifetime of a bind.

// PageMemory is the minimal surface the proxy flyweight core needs from a page cache
// page: random byte access for the offset table and fixed-width fields, plus an
// in-place write for setters that pass the width-check (§4.5).
type PageMemory interface {
	// Bytes returns the full backing segment. Offsets passed to proxy getters/setters
	// are absolute indices into this slice.
	Bytes() []byte
	// WriteAt overwrites data starting at offset. The caller guarantees offset+len(data)
	// does not exceed the record's previously-computed width; a short write would leave
	// the page corrupt, which this layer's in-place setters never do (§4.5 "either write
	// all bytes or write none and unbind").
	WriteAt(offset int, data []byte)
	// SymbolTable returns the FSST symbol table owned by this page, or nil if the page
	// carries no compressed strings. Shared by reference, immutable once loaded (§5).
	SymbolTable() *FSSTSymbolTable
}

// InMemoryPage is a trivial PageMemory backed by a plain []byte, used by tests and by
// cmd/nodedump to exercise bind/unbind without a real page cache.
type InMemoryPage struct {
	segment []byte
	symbols *FSSTSymbolTable
}

// NewInMemoryPage wraps an existing byte slice as a PageMemory.
func NewInMemoryPage(segment []byte) *InMemoryPage {
	return &InMemoryPage{segment: segment}
}

// NewInMemoryPageWithSymbols wraps an existing byte slice with an FSST symbol table for
// compressed-string tests.
func NewInMemoryPageWithSymbols(segment []byte, symbols *FSSTSymbolTable) *InMemoryPage {
	return &InMemoryPage{segment: segment, symbols: symbols}
}

func (p *InMemoryPage) Bytes() []byte { return p.segment }

func (p *InMemoryPage) WriteAt(offset int, data []byte) {
	copy(p.segment[offset:offset+len(data)], data)
}

func (p *InMemoryPage) SymbolTable() *FSSTSymbolTable { return p.symbols }

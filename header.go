package ledger

// HeaderFlag is a bitmask shared by both PageHeader and LedgerHeader.
type HeaderFlag uint8

// Set returns f with bit added.
func (f HeaderFlag) Set(bit HeaderFlag) HeaderFlag {
	return f | bit
}

// IsSet reports whether bit is present in f.
func (f HeaderFlag) IsSet(bit HeaderFlag) bool {
	return f&bit != 0
}

// pageHeader is a thin, non-owning view over the first PageHeaderSize
// bytes of a page. It never copies; every accessor reads or writes
// through the backing slice, so mutations are visible to whatever holds
// the page's bytes (typically a memory mapping).
type pageHeader struct {
	b []byte // len == PageHeaderSize
}

// pageHeaderAt wraps the header region of page.
func pageHeaderAt(page []byte) pageHeader {
	return pageHeader{b: page[:PageHeaderSize]}
}

func (h pageHeader) pageType() uint8 {
	return h.b[0]
}

func (h pageHeader) setPageType(t uint8) {
	h.b[0] = t
}

func (h pageHeader) flags() HeaderFlag {
	return HeaderFlag(h.b[1])
}

func (h pageHeader) setFlags(f HeaderFlag) {
	h.b[1] = byte(f)
}

func (h pageHeader) slotCount() uint32 {
	return getUint32LE(h.b[4:8])
}

func (h pageHeader) setSlotCount(v uint32) {
	putUint32LE(h.b[4:8], v)
}

func (h pageHeader) freeStart() uint32 {
	return getUint32LE(h.b[8:12])
}

func (h pageHeader) setFreeStart(v uint32) {
	putUint32LE(h.b[8:12], v)
}

func (h pageHeader) freeEnd() uint32 {
	return getUint32LE(h.b[12:16])
}

func (h pageHeader) setFreeEnd(v uint32) {
	putUint32LE(h.b[12:16], v)
}

// freeSpace returns the number of bytes between the slot directory and
// the cell area, i.e. the room left for one more slot entry plus its
// cell.
func (h pageHeader) freeSpace() uint32 {
	return h.freeEnd() - h.freeStart()
}

// initPageHeader zero-fills page and writes a fresh header describing
// an empty slotted page of the given total size.
func initPageHeader(page []byte, pageSize uint32) {
	for i := range page {
		page[i] = 0
	}
	h := pageHeaderAt(page)
	h.setPageType(PageTypeSlotted)
	h.setFlags(0)
	h.setSlotCount(0)
	h.setFreeStart(PageHeaderSize)
	h.setFreeEnd(pageSize)
}

// ledgerHeader is a thin, non-owning view over the LedgerHeaderSize
// bytes at the start of a ledger file.
type ledgerHeader struct {
	b []byte // len == LedgerHeaderSize
}

func ledgerHeaderAt(file []byte) ledgerHeader {
	return ledgerHeader{b: file[:LedgerHeaderSize]}
}

func (h ledgerHeader) flags() HeaderFlag {
	return HeaderFlag(h.b[0])
}

func (h ledgerHeader) setFlags(f HeaderFlag) {
	h.b[0] = byte(f)
}

func (h ledgerHeader) name() Name {
	var n Name
	copy(n[:], h.b[nameOffset:nameOffset+NameSize])
	return n
}

func (h ledgerHeader) setName(n Name) {
	copy(h.b[nameOffset:nameOffset+NameSize], n[:])
}

func (h ledgerHeader) description() Description {
	var d Description
	copy(d[:], h.b[descriptionOffset:descriptionOffset+DescriptionSize])
	return d
}

func (h ledgerHeader) setDescription(d Description) {
	copy(h.b[descriptionOffset:descriptionOffset+DescriptionSize], d[:])
}

func (h ledgerHeader) numPages() uint32 {
	return getUint32LE(h.b[numPagesOffset : numPagesOffset+4])
}

func (h ledgerHeader) setNumPages(v uint32) {
	putUint32LE(h.b[numPagesOffset:numPagesOffset+4], v)
}

func (h ledgerHeader) rowsPerPage() uint32 {
	return getUint32LE(h.b[rowsPerPageOffset : rowsPerPageOffset+4])
}

func (h ledgerHeader) setRowsPerPage(v uint32) {
	putUint32LE(h.b[rowsPerPageOffset:rowsPerPageOffset+4], v)
}

func (h ledgerHeader) pageCursor() uint32 {
	return getUint32LE(h.b[pageCursorOffset : pageCursorOffset+4])
}

func (h ledgerHeader) setPageCursor(v uint32) {
	putUint32LE(h.b[pageCursorOffset:pageCursorOffset+4], v)
}

// incPageCursor advances the cursor by one page, wrapping per the
// uint32 field width; a wrap is not expected to happen in practice.
func (h ledgerHeader) incPageCursor() {
	h.setPageCursor(h.pageCursor() + 1)
}

// initLedgerHeader zero-fills file's header region and writes the
// fields for a brand-new single-page ledger.
func initLedgerHeader(file []byte, name Name, description Description, rowsPerPage uint32, flags HeaderFlag) {
	for i := 0; i < LedgerHeaderSize; i++ {
		file[i] = 0
	}
	h := ledgerHeaderAt(file)
	h.setFlags(flags)
	h.setName(name)
	h.setDescription(description)
	h.setNumPages(1)
	h.setRowsPerPage(rowsPerPage)
	h.setPageCursor(0)
}

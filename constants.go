package ledger

// Page geometry. Every page in a store is the same fixed size, split
// into a header, a slot directory that grows forward, and a cell area
// that grows backward from the end of the page.
const (
	// PageHeaderSize is the fixed size, in bytes, of the header at the
	// start of every page: page_type(1) + flags(1) + reserved(2) +
	// slot_count(4) + free_start(4) + free_end(4).
	PageHeaderSize = 16

	// SlotSize is the width of one entry in a page's slot directory: a
	// little-endian u32 cell offset.
	SlotSize = 4

	// DefaultRowsPerPage is the page geometry used when neither the
	// schema nor Options names a row density: PAGE_SZ is always derived
	// as PageHeaderSize + (RowSize+SlotSize)*rowsPerPage, never
	// configured as a byte budget directly.
	DefaultRowsPerPage = 4096
)

// Page header flag bits, shared with LedgerHeader.
const (
	// FlagPrivate marks a page or ledger as owned exclusively by the
	// current process; reserved for future multi-process coordination.
	FlagPrivate HeaderFlag = 1 << 0

	// FlagDeleteMe marks a ledger pending removal. No code path sets
	// this yet; it exists so on-disk files written by a future version
	// remain readable by this one.
	FlagDeleteMe HeaderFlag = 1 << 1
)

// Page types recorded in a page header's first byte. There is only one
// kind of page in a fixed-record ledger, but the field is reserved so a
// later format revision can mix page kinds in one file.
const (
	PageTypeSlotted uint8 = 0
)

// LedgerHeader field layout. The header occupies a fixed region at the
// start of the ledger file, ahead of page 0.
const (
	// LedgerHeaderSize is the total size, in bytes, of the fixed header
	// record at file offset 0.
	LedgerHeaderSize = 68

	nameOffset        = 1
	descriptionOffset = nameOffset + NameSize
	numPagesOffset    = descriptionOffset + DescriptionSize
	rowsPerPageOffset = numPagesOffset + 4
	pageCursorOffset  = rowsPerPageOffset + 4
	reservedOffset    = pageCursorOffset + 4
	reservedSize      = LedgerHeaderSize - reservedOffset
)

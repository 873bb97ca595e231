package ledger

import "testing"

func TestInitPageHeader(t *testing.T) {
	page := make([]byte, 256)
	initPageHeader(page, 256)

	h := pageHeaderAt(page)
	if h.slotCount() != 0 {
		t.Errorf("slotCount = %d, want 0", h.slotCount())
	}
	if h.freeStart() != PageHeaderSize {
		t.Errorf("freeStart = %d, want %d", h.freeStart(), PageHeaderSize)
	}
	if h.freeEnd() != 256 {
		t.Errorf("freeEnd = %d, want 256", h.freeEnd())
	}
	if h.freeSpace() != 256-PageHeaderSize {
		t.Errorf("freeSpace = %d, want %d", h.freeSpace(), 256-PageHeaderSize)
	}
}

func TestPageHeaderFlags(t *testing.T) {
	page := make([]byte, 256)
	initPageHeader(page, 256)
	h := pageHeaderAt(page)

	h.setFlags(h.flags().Set(FlagPrivate))
	if !h.flags().IsSet(FlagPrivate) {
		t.Error("FlagPrivate not set after Set")
	}
	if h.flags().IsSet(FlagDeleteMe) {
		t.Error("FlagDeleteMe should not be set")
	}
}

func TestInitLedgerHeader(t *testing.T) {
	file := make([]byte, LedgerHeaderSize)
	name := NewName("Documents")
	desc := NewDescription("my docs")
	initLedgerHeader(file, name, desc, 42, 0)

	h := ledgerHeaderAt(file)
	if h.name() != name {
		t.Errorf("name = %v, want %v", h.name(), name)
	}
	if h.description() != desc {
		t.Errorf("description = %v, want %v", h.description(), desc)
	}
	if h.numPages() != 1 {
		t.Errorf("numPages = %d, want 1", h.numPages())
	}
	if h.rowsPerPage() != 42 {
		t.Errorf("rowsPerPage = %d, want 42", h.rowsPerPage())
	}
	if h.pageCursor() != 0 {
		t.Errorf("pageCursor = %d, want 0", h.pageCursor())
	}
}

func TestLedgerHeaderIncPageCursor(t *testing.T) {
	file := make([]byte, LedgerHeaderSize)
	initLedgerHeader(file, BlankName, BlankDescription, 1, 0)
	h := ledgerHeaderAt(file)

	h.incPageCursor()
	h.incPageCursor()
	if h.pageCursor() != 2 {
		t.Errorf("pageCursor = %d, want 2", h.pageCursor())
	}
}

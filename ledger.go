package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/lafskelton/go-ledger/mmap"
)

// Options configures an Open call. A nil Options is equivalent to
// &Options{}: every field takes its zero-value default.
type Options struct {
	// RowsPerPage overrides how many rows fit on a page for newly
	// created ledgers. Zero defers to schema.RowsPerPage(), and a
	// schema returning zero in turn defaults to DefaultRowsPerPage.
	// Ignored when opening an existing file: its page geometry was
	// fixed at creation and is read back from the stored header.
	RowsPerPage int

	// Flags are written into a newly created ledger's header. Ignored
	// when opening an existing file, whose flags are already stored.
	Flags HeaderFlag

	// Logger receives lifecycle events: ledger open, page allocation.
	// Nil means logrus.StandardLogger().
	Logger *logrus.Logger
}

func (o *Options) rowsPerPage() int {
	if o == nil {
		return 0
	}
	return o.RowsPerPage
}

func (o *Options) flags() HeaderFlag {
	if o == nil {
		return 0
	}
	return o.Flags
}

func (o *Options) logger() *logrus.Logger {
	if o == nil || o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// Store is an embedded, append-oriented store of fixed-size rows of
// type T, backed by a single memory-mapped file. It is not safe for
// concurrent use from multiple goroutines without external
// synchronization, and never for concurrent use from multiple
// processes.
type Store[T any] struct {
	file   *os.File
	mapped *mmap.Map
	schema PageSchema[T]

	pageSize    uint32
	rowsPerPage uint32

	log *logrus.Entry
}

// Open opens or creates the ledger named name under folder. description
// is only written when creating a new ledger; reopening an existing one
// keeps whatever description it already has.
func Open[T any](folder string, name Name, description Description, schema PageSchema[T], opts *Options) (*Store[T], error) {
	log := opts.logger().WithFields(logrus.Fields{
		"component": "ledger",
		"name":      name.String(),
	})

	path := filepath.Join(folder, name.String())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, WrapDatastoreError("open ledger file", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, WrapDatastoreError("stat ledger file", err)
	}

	isNew := info.Size() == 0
	if !isNew && info.Size() < LedgerHeaderSize {
		f.Close()
		return nil, WrapDatastoreError("open ledger file", mmap.ErrEmptyFile)
	}

	size := info.Size()
	var rowsPerPage, pgSize uint32

	if isNew {
		rowsPerPage = uint32(opts.rowsPerPage())
		if rowsPerPage == 0 {
			rowsPerPage = uint32(schema.RowsPerPage())
		}
		if rowsPerPage == 0 {
			rowsPerPage = DefaultRowsPerPage
		}
		pgSize = pageSize(schema, rowsPerPage)
		size = int64(LedgerHeaderSize) + int64(pgSize)
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, WrapDatastoreError("truncate new ledger file", err)
		}
	}

	m, err := mmap.New(int(f.Fd()), 0, int(size), true)
	if err != nil {
		f.Close()
		return nil, WrapDatastoreError("mmap ledger file", err)
	}

	if !isNew {
		// Page geometry was fixed when this file was created; it is
		// read back from the header rather than recomputed from opts
		// or schema, which may disagree with what was used at Open.
		rowsPerPage = ledgerHeaderAt(m.Data()).rowsPerPage()
		pgSize = pageSize(schema, rowsPerPage)
	}

	s := &Store[T]{
		file:        f,
		mapped:      m,
		schema:      schema,
		pageSize:    pgSize,
		rowsPerPage: rowsPerPage,
		log:         log,
	}

	if isNew {
		data := m.Data()
		initLedgerHeader(data, name, description, rowsPerPage, opts.flags())
		initPageHeader(data[LedgerHeaderSize:], pgSize)
		log.WithFields(logrus.Fields{"pages": 1, "rows_per_page": rowsPerPage}).Debug("created new ledger")
	} else {
		h := ledgerHeaderAt(m.Data())
		numRows, err := s.numRowsLocked()
		if err != nil {
			m.Close()
			f.Close()
			return nil, err
		}
		log.WithFields(logrus.Fields{"pages": h.numPages(), "rows": numRows}).Debug("opened existing ledger")
	}

	return s, nil
}

// Close flushes outstanding writes and releases the memory mapping and
// file handle. The store must not be used afterward.
func (s *Store[T]) Close() error {
	if err := s.mapped.Sync(); err != nil {
		s.mapped.Close()
		s.file.Close()
		return WrapDatastoreError("sync on close", err)
	}
	if err := s.mapped.Close(); err != nil {
		s.file.Close()
		return WrapDatastoreError("close mapping", err)
	}
	return s.file.Close()
}

// SyncAll flushes the entire mapping to disk.
func (s *Store[T]) SyncAll() error {
	if err := s.mapped.Sync(); err != nil {
		return WrapDatastoreError("sync all", err)
	}
	return nil
}

func (s *Store[T]) header() ledgerHeader {
	return ledgerHeaderAt(s.mapped.Data())
}

func (s *Store[T]) pageOffset(pageID uint32) int64 {
	return int64(LedgerHeaderSize) + int64(pageID)*int64(s.pageSize)
}

func (s *Store[T]) pageAt(pageID uint32) ([]byte, error) {
	h := s.header()
	if pageID >= h.numPages() {
		return nil, WrapDatastoreError("access page", NewPageError(ErrPageIDOutOfBounds))
	}
	off := s.pageOffset(pageID)
	return s.mapped.Data()[off : off+int64(s.pageSize)], nil
}

// NumPages returns the number of pages currently allocated in the
// ledger.
func (s *Store[T]) NumPages() uint32 {
	return s.header().numPages()
}

// NumRows returns the number of rows, live or logically deleted, the
// ledger has ever held. It is derived from the tail page's slot count,
// not the page cursor.
func (s *Store[T]) NumRows() (uint32, error) {
	return s.numRowsLocked()
}

func (s *Store[T]) numRowsLocked() (uint32, error) {
	h := s.header()
	numPages := h.numPages()
	if numPages == 0 {
		return 0, nil
	}
	tail, err := s.pageAt(numPages - 1)
	if err != nil {
		return 0, err
	}
	return (numPages-1)*s.rowsPerPage + pageSlotCount(tail), nil
}

// Insert appends v as a new row and returns its assigned row id.
// Insert never fails with ErrNoSpace to the caller: when the current
// page is full, the store transparently allocates a new one and
// retries.
func (s *Store[T]) Insert(v *T) (RowID, error) {
	h := s.header()
	pageID := h.pageCursor()

	page, err := s.pageAt(pageID)
	if err != nil {
		return 0, err
	}

	slotN, err := insertRow(page, s.schema, v)
	if err == nil {
		return toRowID(pageID, slotN, s.rowsPerPage), nil
	}
	if !IsNoSpace(err) {
		return 0, WrapDatastoreError("insert row", err)
	}

	newPageID, err := s.allocateNewPage()
	if err != nil {
		return 0, err
	}
	s.header().incPageCursor()

	page, err = s.pageAt(newPageID)
	if err != nil {
		return 0, err
	}
	slotN, err = insertRow(page, s.schema, v)
	if err != nil {
		return 0, WrapDatastoreError("insert row on new page", err)
	}
	return toRowID(newPageID, slotN, s.rowsPerPage), nil
}

// allocateNewPage grows the backing file by one page, remaps, and
// writes a fresh page header at the new page's offset. It returns the
// new page's id. Any *T returned by a previous AccessRowMut call is
// invalidated by the remap.
func (s *Store[T]) allocateNewPage() (uint32, error) {
	h := s.header()
	newPageID := h.numPages()
	newLen := s.pageOffset(newPageID) + int64(s.pageSize)

	if err := s.file.Truncate(newLen); err != nil {
		return 0, WrapDatastoreError("grow ledger file", err)
	}
	if err := s.mapped.Remap(newLen); err != nil {
		return 0, WrapDatastoreError("remap after grow", err)
	}

	h = s.header()
	h.setNumPages(newPageID + 1)

	page, err := s.pageAt(newPageID)
	if err != nil {
		return 0, err
	}
	initPageHeader(page, s.pageSize)

	s.log.WithField("pages", newPageID+1).Info("allocated new page")
	return newPageID, nil
}

// AccessRow decodes and returns a copy of the row named by id.
func (s *Store[T]) AccessRow(id RowID) (T, error) {
	var zero T
	pageID, slotN := fromRowID(id, s.rowsPerPage)
	page, err := s.pageAt(pageID)
	if err != nil {
		return zero, err
	}
	v, err := accessRow(page, s.schema, slotN)
	if err != nil {
		return zero, WrapDatastoreError("access row", err)
	}
	return v, nil
}

// AccessRowMut returns a pointer aliasing the row named by id directly
// in the memory mapping: writes through it are writes to the file.
// It only works for schemas whose fields are already in wire form (see
// schema.go); the default Encode/Decode path used by AccessRow always
// works but copies.
func (s *Store[T]) AccessRowMut(id RowID) (*T, error) {
	pageID, slotN := fromRowID(id, s.rowsPerPage)
	page, err := s.pageAt(pageID)
	if err != nil {
		return nil, err
	}
	v, err := accessRowZeroCopy(page, s.schema, slotN)
	if err != nil {
		return nil, WrapDatastoreError("access row", err)
	}
	return v, nil
}

// DeleteRow marks the row named by id as logically deleted, per its
// schema's DeletedRow sentinel. The row id is never reused.
func (s *Store[T]) DeleteRow(id RowID) error {
	pageID, slotN := fromRowID(id, s.rowsPerPage)
	page, err := s.pageAt(pageID)
	if err != nil {
		return err
	}
	if err := setRowDeleted(page, s.schema, slotN); err != nil {
		return WrapDatastoreError("delete row", err)
	}
	return nil
}

// pageAtUnchecked returns page pageID's bytes without checking pageID
// against the ledger's current page count.
func (s *Store[T]) pageAtUnchecked(pageID uint32) []byte {
	off := s.pageOffset(pageID)
	return s.mapped.Data()[off : off+int64(s.pageSize)]
}

// AccessRowUnchecked is AccessRow without bounds-checking the page id
// or slot number derived from id. Callers must already know id names a
// row that exists on this store, typically one this store returned
// from Insert or InsertRowUnchecked.
func (s *Store[T]) AccessRowUnchecked(id RowID) (T, error) {
	var zero T
	pageID, slotN := fromRowID(id, s.rowsPerPage)
	page := s.pageAtUnchecked(pageID)
	cell := rowCellUnchecked(page, s.schema, slotN)
	if isDeletedRow(s.schema, cell) {
		return zero, NewPageError(ErrRowNotFound)
	}
	v, err := s.schema.Decode(cell)
	if err != nil {
		return zero, WrapPageError(ErrCodec, err)
	}
	return v, nil
}

// InsertRowUnchecked is Insert without the free-space check and
// without allocating a new page when the current one is full. Callers
// must have already verified room on the tail page, typically via
// FreeSpaceUnchecked.
func (s *Store[T]) InsertRowUnchecked(v *T) RowID {
	pageID := s.header().pageCursor()
	page := s.pageAtUnchecked(pageID)
	slotN := insertRowUnchecked(page, s.schema, v)
	return toRowID(pageID, slotN, s.rowsPerPage)
}

// FreeSpaceUnchecked reports the free space, in bytes, on page pageID
// without checking pageID against the ledger's current page count.
func (s *Store[T]) FreeSpaceUnchecked(pageID uint32) uint32 {
	return pageFreeSpace(s.pageAtUnchecked(pageID))
}

// WritePage overwrites page pageID's bytes wholesale and flushes just
// that range to disk. It exists for bulk-load paths that build a page
// off-heap and commit it in one shot; most callers want Insert instead.
func (s *Store[T]) WritePage(pageID uint32, data []byte) error {
	page, err := s.pageAt(pageID)
	if err != nil {
		return err
	}
	if len(data) != len(page) {
		return WrapDatastoreError("write page", fmt.Errorf("data is %d bytes, want %d", len(data), len(page)))
	}
	copy(page, data)
	off := s.pageOffset(pageID)
	if err := s.mapped.SyncRange(off, int64(len(page))); err != nil {
		return WrapDatastoreError("sync written page", err)
	}
	return nil
}

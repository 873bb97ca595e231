package ledger

// pageSize returns the total byte size of a page holding rows encoded
// by schema, given how many rows the store has decided fit per page.
// Each row is charged its cell plus its slot directory entry.
func pageSize[T any](schema PageSchema[T], rowsPerPage uint32) uint32 {
	return PageHeaderSize + (uint32(schema.RowSize())+SlotSize)*rowsPerPage
}

// slotOffset reads the cell offset stored in slot slotN of the page's
// directory.
func slotOffset(page []byte, slotN uint32) uint32 {
	pos := PageHeaderSize + slotN*SlotSize
	return getUint32LE(page[pos : pos+4])
}

func setSlotOffset(page []byte, slotN uint32, offset uint32) {
	pos := PageHeaderSize + slotN*SlotSize
	putUint32LE(page[pos:pos+4], offset)
}

// insertRow appends v to page as a new row, returning the slot number
// it was assigned. It fails with ErrNoSpace if the page cannot fit
// another directory entry plus cell.
func insertRow[T any](page []byte, schema PageSchema[T], v *T) (uint32, error) {
	h := pageHeaderAt(page)
	rowSize := uint32(schema.RowSize())

	if h.freeSpace() < rowSize+SlotSize {
		return 0, NewPageError(ErrNoSpace)
	}

	cellStart := h.freeEnd() - rowSize
	if cellStart < h.freeStart()+SlotSize {
		return 0, NewPageError(ErrNoSpace)
	}

	if err := schema.Encode(v, page[cellStart:cellStart+rowSize]); err != nil {
		return 0, WrapPageError(ErrCodec, err)
	}

	slotN := h.slotCount()
	setSlotOffset(page, slotN, cellStart)
	h.setFreeStart(h.freeStart() + SlotSize)
	h.setFreeEnd(cellStart)
	h.setSlotCount(slotN + 1)
	return slotN, nil
}

// insertRowUnchecked is insertRow without the free-space check; callers
// must have already verified the page has room via freeSpace.
func insertRowUnchecked[T any](page []byte, schema PageSchema[T], v *T) uint32 {
	h := pageHeaderAt(page)
	rowSize := uint32(schema.RowSize())
	cellStart := h.freeEnd() - rowSize

	schema.Encode(v, page[cellStart:cellStart+rowSize]) //nolint:errcheck

	slotN := h.slotCount()
	setSlotOffset(page, slotN, cellStart)
	h.setFreeStart(h.freeStart() + SlotSize)
	h.setFreeEnd(cellStart)
	h.setSlotCount(slotN + 1)
	return slotN
}

// rowCell returns the raw bytes of row slotN's cell. slotN beyond the
// page's structural capacity is ErrRowIDOutOfBounds; slotN within
// capacity but never inserted (beyond the current slot count) is
// ErrRowNotFound.
func rowCell[T any](page []byte, schema PageSchema[T], slotN uint32) ([]byte, error) {
	if slotN >= maxRowsPerPage(schema.RowSize(), len(page)) {
		return nil, NewPageError(ErrRowIDOutOfBounds)
	}
	h := pageHeaderAt(page)
	if slotN >= h.slotCount() {
		return nil, NewPageError(ErrRowNotFound)
	}
	rowSize := uint32(schema.RowSize())
	offset := slotOffset(page, slotN)
	return page[offset : offset+rowSize], nil
}

func rowCellUnchecked[T any](page []byte, schema PageSchema[T], slotN uint32) []byte {
	rowSize := uint32(schema.RowSize())
	offset := slotOffset(page, slotN)
	return page[offset : offset+rowSize]
}

// accessRow decodes row slotN from page.
func accessRow[T any](page []byte, schema PageSchema[T], slotN uint32) (T, error) {
	cell, err := rowCell(page, schema, slotN)
	if err != nil {
		var zero T
		return zero, err
	}
	if isDeletedRow(schema, cell) {
		var zero T
		return zero, NewPageError(ErrRowNotFound)
	}
	v, err := schema.Decode(cell)
	if err != nil {
		var zero T
		return zero, WrapPageError(ErrCodec, err)
	}
	return v, nil
}

// accessRowZeroCopy returns a pointer aliasing row slotN's bytes
// directly, for schemas built with the wire-form-fields discipline (see
// schema.go). Mutating through the returned pointer mutates the page.
func accessRowZeroCopy[T any](page []byte, schema PageSchema[T], slotN uint32) (*T, error) {
	cell, err := rowCell(page, schema, slotN)
	if err != nil {
		return nil, err
	}
	if isDeletedRow(schema, cell) {
		return nil, NewPageError(ErrRowNotFound)
	}
	return rowAt[T](cell), nil
}

func accessRowZeroCopyUnchecked[T any](page []byte, schema PageSchema[T], slotN uint32) *T {
	return rowAt[T](rowCellUnchecked(page, schema, slotN))
}

// setRowDeleted overwrites row slotN's cell with its schema's deleted
// sentinel. If the schema has no sentinel (DeletedRow returns nothing),
// this is a no-op: such schemas have no logical-delete concept and the
// row stays live.
func setRowDeleted[T any](page []byte, schema PageSchema[T], slotN uint32) error {
	cell, err := rowCell(page, schema, slotN)
	if err != nil {
		return err
	}
	sentinel := schema.DeletedRow()
	if len(sentinel) == 0 {
		return nil
	}
	copy(cell, sentinel)
	return nil
}

func isDeletedRow[T any](schema PageSchema[T], cell []byte) bool {
	sentinel := schema.DeletedRow()
	if len(sentinel) == 0 {
		return false
	}
	for i, b := range sentinel {
		if cell[i] != b {
			return false
		}
	}
	return true
}

// pageFreeSpace reports the free space, in bytes, between page's slot
// directory and cell area.
func pageFreeSpace(page []byte) uint32 {
	return pageHeaderAt(page).freeSpace()
}

// pageSlotCount reports how many rows, live or deleted, have been
// inserted into page.
func pageSlotCount(page []byte) uint32 {
	return pageHeaderAt(page).slotCount()
}

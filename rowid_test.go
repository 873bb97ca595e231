package ledger

import "testing"

func TestMaxRowsPerPage(t *testing.T) {
	cases := []struct {
		rowSize, pageSize int
		want              uint32
	}{
		{rowSize: 70, pageSize: 4096, want: uint32((4096 - PageHeaderSize) / (70 + SlotSize))},
		{rowSize: 16, pageSize: 64, want: uint32((64 - PageHeaderSize) / (16 + SlotSize))},
	}
	for _, c := range cases {
		if got := maxRowsPerPage(c.rowSize, c.pageSize); got != c.want {
			t.Errorf("maxRowsPerPage(%d, %d) = %d, want %d", c.rowSize, c.pageSize, got, c.want)
		}
	}
}

func TestRowIDRoundTrip(t *testing.T) {
	const rowsPerPage = 7
	for pageID := uint32(0); pageID < 5; pageID++ {
		for slotN := uint32(0); slotN < rowsPerPage; slotN++ {
			id := toRowID(pageID, slotN, rowsPerPage)
			gotPage, gotSlot := fromRowID(id, rowsPerPage)
			if gotPage != pageID || gotSlot != slotN {
				t.Errorf("fromRowID(toRowID(%d, %d)) = (%d, %d), want (%d, %d)",
					pageID, slotN, gotPage, gotSlot, pageID, slotN)
			}
		}
	}
}

func TestRowIDMonotonic(t *testing.T) {
	const rowsPerPage = 4
	var prev RowID
	first := true
	for pageID := uint32(0); pageID < 3; pageID++ {
		for slotN := uint32(0); slotN < rowsPerPage; slotN++ {
			id := toRowID(pageID, slotN, rowsPerPage)
			if !first && id <= prev {
				t.Fatalf("row ids not monotonic: %d after %d", id, prev)
			}
			prev = id
			first = false
		}
	}
}

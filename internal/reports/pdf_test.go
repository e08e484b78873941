package reports

import "testing"

// Landscape A4 height in points.
const landscapeA4H = 595.28

func TestRowsPerPage(t *testing.T) {
	got := rowsPerPage(landscapeA4H)
	// (595.28 - 2*40 - 14) / 14 rows under the header
	if got != 35 {
		t.Fatalf("rowsPerPage = %d, want 35", got)
	}
}

func TestPageCountForFiftyRows(t *testing.T) {
	perPage := rowsPerPage(landscapeA4H)
	rows := 50
	pages := (rows + perPage - 1) / perPage
	if pages != 2 {
		t.Fatalf("50 rows at %d per page = %d pages, want 2", perPage, pages)
	}
	// second page holds the remainder
	if rows-perPage != 15 {
		t.Fatalf("second page should carry 15 rows, got %d", rows-perPage)
	}
}

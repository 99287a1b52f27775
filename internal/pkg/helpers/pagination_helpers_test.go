package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	cases := []struct {
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{1, 15, 0, 15},
		{3, 15, 30, 15},
		{2, 50, 50, 50},
		{0, 15, 0, 15},
		{1, 0, 0, DefaultPageSize},
		{1, MaxPageSize + 1, 0, DefaultPageSize},
	}
	for _, c := range cases {
		offset, limit := CalculateOffsetLimit(c.page, c.size)
		if offset != c.wantOffset || limit != c.wantLimit {
			t.Errorf("CalculateOffsetLimit(%d, %d) = %d, %d, want %d, %d",
				c.page, c.size, offset, limit, c.wantOffset, c.wantLimit)
		}
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(31, 2, 15)
	if info.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages)
	}
	if info.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", info.CurrentPage)
	}
	if info.TotalItems != 31 {
		t.Errorf("TotalItems = %d, want 31", info.TotalItems)
	}

	// Page past the end clamps to the last page.
	info = NewPaginationInfo(10, 9, 15)
	if info.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", info.CurrentPage)
	}

	// An empty listing still reports one page.
	info = NewPaginationInfo(0, 1, 15)
	if info.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", info.TotalPages)
	}
}

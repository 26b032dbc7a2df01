package repository

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count int64
		limit int64
		want  int64
	}{
		{count: 0, limit: 6, want: 0},
		{count: 1, limit: 6, want: 1},
		{count: 6, limit: 6, want: 1},
		{count: 7, limit: 6, want: 2},
		{count: 12, limit: 6, want: 2},
		{count: 13, limit: 6, want: 3},
		{count: 5, limit: 0, want: 0},
	}

	for _, tt := range tests {
		if got := totalPages(tt.count, tt.limit); got != tt.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tt.count, tt.limit, got, tt.want)
		}
	}
}

func TestSkipAmount(t *testing.T) {
	tests := []struct {
		page  int64
		limit int64
		want  int64
	}{
		{page: 1, limit: 6, want: 0},
		{page: 2, limit: 6, want: 6},
		{page: 4, limit: 3, want: 9},
		{page: 0, limit: 6, want: 0},
		{page: -3, limit: 6, want: 0},
	}

	for _, tt := range tests {
		if got := skipAmount(tt.page, tt.limit); got != tt.want {
			t.Fatalf("skipAmount(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 10}},
		{"?page=3&limit=20", Params{Page: 3, Limit: 20}},
		{"?page=0&limit=0", Params{Page: 1, Limit: 10}},
		{"?page=-2&limit=500", Params{Page: 1, Limit: 100}},
		{"?page=abc&limit=xyz", Params{Page: 1, Limit: 10}},
		{"?page=5000000&limit=100", Params{Page: MaxPage, Limit: 100}},
		{"?page=99999999999999999999999&limit=10", Params{Page: MaxPage, Limit: 10}},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)
		if got := Parse(c); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{23, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit int
		want        int
	}{
		{1, 10, 0},
		{3, 20, 40},
		{0, 10, 0},
		{-4, 10, 0},
		{MaxPage + 1, 100, (MaxPage - 1) * 100},
		{int(^uint(0) >> 1), 100, (MaxPage - 1) * 100},
	}
	for _, tt := range tests {
		if got := Offset(tt.page, tt.limit); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

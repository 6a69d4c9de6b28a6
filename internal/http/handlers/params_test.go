package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		query string
		want  pageQuery
	}{
		{"", pageQuery{Page: 0, Size: 20, Sort: "id", Dir: "desc"}},
		{"page=2&size=5&sort=title&dir=asc", pageQuery{Page: 2, Size: 5, Sort: "title", Dir: "asc"}},
		{"page=-1&size=0", pageQuery{Page: 0, Size: 1, Sort: "id", Dir: "desc"}},
		{"size=1000", pageQuery{Page: 0, Size: 100, Sort: "id", Dir: "desc"}},
		{"page=abc&size=&sort=secret&dir=up", pageQuery{Page: 0, Size: 20, Sort: "id", Dir: "desc"}},
		{"sort=PRICE&dir=ASC", pageQuery{Page: 0, Size: 20, Sort: "price", Dir: "asc"}},
		{"page=92233720368547759&size=100", pageQuery{Page: maxPage, Size: 100, Sort: "id", Dir: "desc"}},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/products?"+tt.query, nil)
		if got := pageParams(req); got != tt.want {
			t.Errorf("pageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestPageQueryRequest(t *testing.T) {
	got := pageQuery{Page: 3, Size: 20, Sort: "id", Dir: "desc"}.request()
	if got.Offset != 60 || got.Size != 20 {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestPageQueryRequest_HugePageNeverGoesNegative(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?page=92233720368547759&size=100", nil)
	got := pageParams(req).request()
	if got.Offset < 0 {
		t.Fatalf("expected a non-negative offset, got %d", got.Offset)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  string
	}{
		{"19.99", true, "19.99"},
		{" 5 ", true, "5"},
		{"", false, ""},
		{"abc", false, ""},
		{"1,50", false, ""},
	}
	for _, tt := range tests {
		got := parsePrice(tt.in)
		if got.Valid != tt.valid {
			t.Errorf("parsePrice(%q): expected valid=%v", tt.in, tt.valid)
			continue
		}
		if got.Valid && got.Decimal.String() != tt.want {
			t.Errorf("parsePrice(%q) = %s, want %s", tt.in, got.Decimal, tt.want)
		}
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("   ") != nil {
		t.Errorf("expected blank input to be nil")
	}
	if s := optionalString(" https://x "); s == nil || *s != "https://x" {
		t.Errorf("expected trimmed value, got %v", s)
	}
}

func TestTableViewLinks(t *testing.T) {
	v := newTableView("/products/search", pageQuery{Page: 1, Size: 10, Sort: "title", Dir: "asc"}, "red", nil)

	if !v.HasPrev || v.HasNext {
		t.Errorf("expected prev only, got prev=%v next=%v", v.HasPrev, v.HasNext)
	}
	if got := v.PageURL(0); got != "/products/search?dir=asc&page=0&q=red&size=10&sort=title" {
		t.Errorf("unexpected page url %q", got)
	}
	if got := v.SortURL("title"); !strings.Contains(got, "dir=desc") || !strings.Contains(got, "page=0") {
		t.Errorf("expected the active column to flip direction and reset the page, got %q", got)
	}
	if got := v.SortURL("price"); !strings.Contains(got, "dir=asc") || !strings.Contains(got, "sort=price") {
		t.Errorf("expected a new column to sort ascending, got %q", got)
	}
	if v.SortMark("title") != "▲" || v.SortMark("price") != "" {
		t.Errorf("unexpected sort marks")
	}
}

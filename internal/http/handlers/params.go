package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps Page*Size from overflowing the offset.
	maxPage         = math.MaxInt / maxPageSize
)

// pageQuery is a normalized page/size/sort/dir selection.
type pageQuery struct {
	Page int
	Size int
	Sort string
	Dir  string
}

// firstPage is what the table snaps back to after an add or a delete.
var firstPage = pageQuery{Page: 0, Size: defaultPageSize, Sort: repo.DefaultSort, Dir: repo.DefaultDir}

func (q pageQuery) request() repo.PageRequest {
	return repo.PageRequest{Offset: q.Page * q.Size, Size: q.Size, Sort: q.Sort, Dir: q.Dir}
}

// pageParams reads page, size, sort and dir from the query string. Values are
// clamped or defaulted, never rejected.
func pageParams(r *http.Request) pageQuery {
	q := r.URL.Query()
	return normalizePage(
		intOrDefault(q.Get("page"), 0),
		intOrDefault(q.Get("size"), defaultPageSize),
		q.Get("sort"),
		q.Get("dir"),
	)
}

func normalizePage(page, size int, sort, dir string) pageQuery {
	return pageQuery{
		Page: min(max(page, 0), maxPage),
		Size: min(max(size, 1), maxPageSize),
		Sort: repo.SortColumn(sort),
		Dir:  repo.SortDirection(dir),
	}
}

func intOrDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// parsePrice trims s and parses it. Blank and unparseable input both mean "no price".
func parsePrice(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// optionalString maps blank input to nil so it is stored as NULL, not "".
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func productID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

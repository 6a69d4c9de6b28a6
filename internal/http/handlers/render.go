package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/shopspring/decimal"
)

const appName = "Product Catalog"

//go:embed templates/*.html
var templateFiles embed.FS

var templateFuncs = template.FuncMap{
	"price": func(d decimal.NullDecimal) string {
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
}

type views struct {
	t *template.Template
}

func mustParseViews() *views {
	t := template.Must(template.New("views").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html"))
	return &views{t: t}
}

// render executes into a buffer first so a template error never leaves a half-written page.
func (v *views) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// tableView feeds the products-table fragment.
type tableView struct {
	Products []models.Product
	Endpoint string
	Query    string
	Page     int
	Size     int
	Sort     string
	Dir      string
	HasPrev  bool
	HasNext  bool
}

func newTableView(endpoint string, q pageQuery, query string, products []models.Product) tableView {
	return tableView{
		Products: products,
		Endpoint: endpoint,
		Query:    query,
		Page:     q.Page,
		Size:     q.Size,
		Sort:     q.Sort,
		Dir:      q.Dir,
		HasPrev:  q.Page > 0,
		HasNext:  len(products) >= q.Size,
	}
}

func (v tableView) PrevPage() int { return v.Page - 1 }
func (v tableView) NextPage() int { return v.Page + 1 }

// PageNumber is the 1-based page shown to users.
func (v tableView) PageNumber() int { return v.Page + 1 }

// PageURL links to another page keeping size, sort, dir and query.
func (v tableView) PageURL(page int) string {
	return v.link(page, v.Sort, v.Dir)
}

// SortURL links to page 0 sorted by col, flipping the direction when col is already active.
func (v tableView) SortURL(col string) string {
	dir := "asc"
	if col == v.Sort && v.Dir == "asc" {
		dir = "desc"
	}
	return v.link(0, col, dir)
}

func (v tableView) SortMark(col string) string {
	if col != v.Sort {
		return ""
	}
	if v.Dir == "asc" {
		return "▲"
	}
	return "▼"
}

func (v tableView) link(page int, sort, dir string) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(v.Size))
	params.Set("sort", sort)
	params.Set("dir", dir)
	if v.Query != "" {
		params.Set("q", v.Query)
	}
	return v.Endpoint + "?" + params.Encode()
}

type homeView struct {
	AppName string
	Stats   *repo.CatalogStats
}

type searchView struct {
	AppName string
	Table   tableView
}

type editView struct {
	AppName string
	Product models.Product
}

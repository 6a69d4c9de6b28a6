package handlers_test_suite

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/importer"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	productRepo *repo.InMemoryProductRepository
	statsRepo   *repo.InMemoryStatsRepository
	quietLog    = newQuietLogger()
)

func init() {
	productRepo = repo.NewInMemoryProductRepository()
	statsRepo = repo.NewInMemoryStatsRepository(productRepo)
}

func newQuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newRouter builds the full router over the in-memory repositories. job may be nil.
func newRouter(job handlers.ImportRunner) http.Handler {
	s := handlers.NewServer(handlers.Deps{
		Products: productRepo,
		Stats:    statsRepo,
		Importer: job,
		Log:      quietLog,
	})
	return router.NewRouter(s, nil, quietLog)
}

func clearAllProducts() {
	productRepo.Clear()
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func addProduct(title string, price string) models.Product {
	id, err := productRepo.InsertManual(context.Background(), title, parseNullDecimal(price), nil)
	if err != nil {
		panic(fmt.Sprintf("insert failed: %v", err))
	}
	p, err := productRepo.FindByID(context.Background(), id)
	if err != nil {
		panic(fmt.Sprintf("find failed: %v", err))
	}
	return p
}

func parseNullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// titles returns the product titles of a rendered table, in row order.
func titles(body string) []string {
	var out []string
	const open = `<td class="title">`
	for {
		i := strings.Index(body, open)
		if i < 0 {
			return out
		}
		body = body[i+len(open):]
		j := strings.Index(body, "</td>")
		out = append(out, body[:j])
		body = body[j:]
	}
}

// stubImporter lets tests choose what a manual run returns.
type stubImporter struct {
	run  importer.Run
	err  error
	runs *importer.InMemoryRunLog
}

func newStubImporter(run importer.Run, err error) *stubImporter {
	return &stubImporter{run: run, err: err, runs: importer.NewInMemoryRunLog()}
}

func (s *stubImporter) Run(_ context.Context, trigger string) (importer.Run, error) {
	return s.run, s.err
}

func (s *stubImporter) Runs() importer.RunLog {
	return s.runs
}

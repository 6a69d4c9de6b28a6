package handlers_test_suite

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/importer"
)

const feedBody = `{"products":[
	{"id":101,"title":"Linen Dress","handle":"linen-dress","variants":[{"id":1,"title":"S","price":"49.90"}]},
	{"id":102,"title":"Wool Coat","handle":"wool-coat","variants":[{"id":2,"title":"M","price":"120.00"}]},
	{"title":"No ID","handle":"no-id","variants":[]}
]}`

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newJob(feedURL string) *importer.Job {
	return importer.NewJob(productRepo, importer.NewFeedClient(feedURL, 5*time.Second), quietLog, importer.Options{
		ProductURLTemplate: "https://shop.example/products/{handle}",
	})
}

func TestRunImportHandler_ImportsFeed(t *testing.T) {
	t.Cleanup(clearAllProducts)
	feed := newFeedServer(t, http.StatusOK, feedBody)
	r := newRouter(newJob(feed.URL))

	addProduct("Manual", "1")

	w := postForm(r, "/import/run", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var run importer.Run
	if err := json.NewDecoder(w.Body).Decode(&run); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if run.Trigger != importer.TriggerManual {
		t.Errorf("expected trigger %q, got %q", importer.TriggerManual, run.Trigger)
	}
	if run.Fetched != 3 || run.Skipped != 1 || run.Affected != 2 {
		t.Errorf("expected fetched=3 skipped=1 affected=2, got %+v", run)
	}
	if productRepo.Count() != 3 {
		t.Errorf("expected 3 products, got %d", productRepo.Count())
	}

	// A second run updates the same rows instead of duplicating them.
	w = postForm(r, "/import/run", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if productRepo.Count() != 3 {
		t.Errorf("expected import to be idempotent, got %d products", productRepo.Count())
	}

	w = get(r, "/import/runs?limit=1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var runs handlers.ImportRunsResult
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if runs.Meta.TotalCount != 1 || len(runs.Data) != 1 {
		t.Fatalf("expected exactly one run, got %+v", runs)
	}
	if !runs.Data[0].Succeeded() {
		t.Errorf("expected the latest run to succeed, got error %q", runs.Data[0].Error)
	}
}

func TestRunImportHandler_FeedFailure(t *testing.T) {
	t.Cleanup(clearAllProducts)
	feed := newFeedServer(t, http.StatusInternalServerError, "boom")
	r := newRouter(newJob(feed.URL))

	w := postForm(r, "/import/run", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 Bad Gateway, got %d", w.Code)
	}

	var run importer.Run
	if err := json.NewDecoder(w.Body).Decode(&run); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if run.Succeeded() {
		t.Errorf("expected the run to carry an error")
	}
	if productRepo.Count() != 0 {
		t.Errorf("expected nothing imported, got %d products", productRepo.Count())
	}
}

func TestRunImportHandler_Conflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"in progress", importer.ErrImportInProgress},
		{"lock held elsewhere", importer.ErrLockHeld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(newStubImporter(importer.Run{}, tt.err))

			w := postForm(r, "/import/run", nil)
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409 Conflict, got %d", w.Code)
			}
			var resp handlers.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.Error != tt.err.Error() {
				t.Errorf("expected error %q, got %q", tt.err.Error(), resp.Error)
			}
		})
	}
}

func TestRunImportHandler_StubFailure(t *testing.T) {
	r := newRouter(newStubImporter(importer.Run{ID: "abc", Error: "feed down"}, errors.New("feed down")))

	w := postForm(r, "/import/run", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 Bad Gateway, got %d", w.Code)
	}
}

func TestImportHandlers_Disabled(t *testing.T) {
	r := newRouter(nil)

	for _, tt := range []struct {
		method string
		target string
	}{
		{http.MethodPost, "/import/run"},
		{http.MethodGet, "/import/runs"},
	} {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: expected 503, got %d", tt.method, tt.target, w.Code)
		}
	}
}

func TestImportRunsHandler_NewestFirst(t *testing.T) {
	stub := newStubImporter(importer.Run{}, nil)
	for i := range 3 {
		stub.runs.Append(t.Context(), importer.Run{ID: fmt.Sprintf("run-%d", i)})
	}
	r := newRouter(stub)

	w := get(r, "/import/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var runs handlers.ImportRunsResult
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(runs.Data) != 3 || runs.Data[0].ID != "run-2" || runs.Data[2].ID != "run-0" {
		t.Errorf("expected runs newest first, got %+v", runs.Data)
	}
}

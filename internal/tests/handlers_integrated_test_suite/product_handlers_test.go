package handlers_integrated_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/importer"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

func TestAddSearchDelete(t *testing.T) {
	t.Cleanup(clearAllProducts)
	clearAllProducts()
	r := newRouter(nil)

	for _, title := range []string{"Red Shirt", "Blue Pants", "red scarf"} {
		w := postForm(r, "/products/add", url.Values{"title": {title}, "price": {"10.00"}})
		if w.Code != http.StatusOK {
			t.Fatalf("add %q: expected 200 OK, got %d", title, w.Code)
		}
	}

	w := get(r, "/products/search?q=RED")
	if got := titles(w.Body.String()); !slices.Equal(got, []string{"red scarf", "Red Shirt"}) {
		t.Errorf("expected case-insensitive matches newest first, got %v", got)
	}

	products, err := productRepo.SearchByTitle(t.Context(), "pants", 10)
	if err != nil || len(products) != 1 {
		t.Fatalf("expected one match for pants, got %d (%v)", len(products), err)
	}

	w = postForm(r, fmt.Sprintf("/products/%d/delete", products[0].ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if n := countProducts(t); n != 2 {
		t.Errorf("expected 2 products after delete, got %d", n)
	}

	w = postForm(r, "/products/987654/delete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for unknown id, got %d", w.Code)
	}
	if n := countProducts(t); n != 2 {
		t.Errorf("expected deleting an unknown id to be a no-op, got %d", n)
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Cleanup(clearAllProducts)
	clearAllProducts()
	r := newRouter(nil)

	postForm(r, "/products/add", url.Values{"title": {"Chair"}, "price": {"40"}})
	products, err := productRepo.FindAll(t.Context(), 1)
	if err != nil || len(products) != 1 {
		t.Fatalf("expected the new product, got %v (%v)", products, err)
	}
	before := products[0]

	w := postForm(r, fmt.Sprintf("/products/%d/edit", before.ID), url.Values{"title": {" "}, "price": {"abc"}, "url": {"https://example.com/chair"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", w.Code)
	}

	after, err := productRepo.FindByID(t.Context(), before.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if after.Title != "Untitled" {
		t.Errorf("expected Untitled, got %q", after.Title)
	}
	if after.Price.Valid {
		t.Errorf("expected an unparseable price to clear the price, got %v", after.Price.Decimal)
	}
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Errorf("updated_at went backwards")
	}
}

func TestImportUpsertsByExternalID(t *testing.T) {
	t.Cleanup(clearAllProducts)
	clearAllProducts()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"products":[
			{"id":1,"title":"A","handle":"a","variants":[{"id":10,"price":"1.50"}]},
			{"id":2,"title":"B","handle":"b b","variants":[{"id":20,"price":2}]}
		]}`)
	}))
	t.Cleanup(feed.Close)

	job := importer.NewJob(productRepo, importer.NewFeedClient(feed.URL, 5*time.Second), quietLog, importer.Options{
		ProductURLTemplate: "https://shop.example/products/{handle}",
	})
	r := newRouter(job)

	for range 2 {
		w := postForm(r, "/import/run", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
		}
	}
	if n := countProducts(t); n != 2 {
		t.Fatalf("expected 2 products after two runs, got %d", n)
	}

	products, err := productRepo.FindPaged(t.Context(), repo.PageRequest{Size: 10, Sort: "price", Dir: "asc"})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if products[0].Title != "A" || products[0].Price.Decimal.String() != "1.5" {
		t.Errorf("unexpected first product %+v", products[0])
	}
	if products[1].URL == nil || *products[1].URL != "https://shop.example/products/b%20b" {
		t.Errorf("expected escaped handle in url, got %v", products[1].URL)
	}
	if len(products[0].VariantsJSON) == 0 {
		t.Errorf("expected variants to be stored")
	}

	w := get(r, "/stats")
	var stats repo.CatalogStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("error decoding stats: %v", err)
	}
	if stats.ImportedProducts != 2 || stats.ManualProducts != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestHealthHandler(t *testing.T) {
	r := newRouter(nil)

	w := get(r, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
}

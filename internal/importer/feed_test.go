package importer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFeedClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept: application/json, got %q", r.Header.Get("Accept"))
		}
		fmt.Fprint(w, `{"products":[
			{"id":1,"title":"A","handle":"a","vendor":"ignored","variants":[{"id":10,"title":"S","price":"12.50"},{"id":11,"price":13}]},
			{"title":null,"variants":null}
		]}`)
	}))
	defer srv.Close()

	products, err := NewFeedClient(srv.URL, time.Second).Fetch(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	first := products[0]
	if first.ID == nil || *first.ID != 1 || first.Title == nil || *first.Title != "A" {
		t.Errorf("unexpected first product %+v", first)
	}
	if len(first.Variants) != 2 || first.Variants[0].Price != "12.50" || first.Variants[1].Price != "13" {
		t.Errorf("expected string and numeric prices to decode, got %+v", first.Variants)
	}

	second := products[1]
	if second.ID != nil || second.Title != nil || second.Variants != nil {
		t.Errorf("expected missing fields to stay nil, got %+v", second)
	}
}

func TestFeedClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "oops"},
		{"not found", http.StatusNotFound, ""},
		{"malformed json", http.StatusOK, `{"products":[`},
		{"bad price", http.StatusOK, `{"products":[{"id":1,"variants":[{"price":{}}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			if _, err := NewFeedClient(srv.URL, time.Second).Fetch(t.Context()); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestFeedClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	if _, err := NewFeedClient(srv.URL, 20*time.Millisecond).Fetch(t.Context()); err == nil {
		t.Errorf("expected a timeout error")
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// ProductsTableHandler godoc
// @Summary Paginated products table fragment
// @Tags products
// @Produce html
// @Param page query int false "Page index, floors at 0" default(0)
// @Param size query int false "Page size, clamped to [1,100]" default(20)
// @Param sort query string false "Sort column" Enums(id, title, price, created_at, updated_at) default(id)
// @Param dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {string} string "HTML fragment"
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func (s *Server) ProductsTableHandler(w http.ResponseWriter, r *http.Request) {
	s.renderTable(w, r, pageParams(r))
}

// SearchProductsHandler godoc
// @Summary Search products by title
// @Description Case-insensitive substring match on the title. A blank query returns an empty table.
// @Tags products
// @Produce html
// @Param q query string false "Title substring"
// @Param page query int false "Page index" default(0)
// @Param size query int false "Page size" default(20)
// @Param sort query string false "Sort column" default(id)
// @Param dir query string false "Sort direction" default(desc)
// @Success 200 {string} string "HTML fragment"
// @Failure 500 {string} string "Internal error"
// @Router /products/search [get]
func (s *Server) SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := pageParams(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	products := []models.Product{}
	if query != "" {
		var err error
		products, err = s.products.SearchByTitlePaged(r.Context(), query, q.request())
		if err != nil {
			s.serverError(w, r, "could not search products", err)
			return
		}
	}

	s.renderView(w, r, http.StatusOK, "products-table", newTableView("/products/search", q, query, products))
}

// AddProductHandler godoc
// @Summary Add a product
// @Description Inserts a product and returns the first page of the table.
// @Tags products
// @Accept x-www-form-urlencoded
// @Produce html
// @Param title formData string true "Title"
// @Param price formData string false "Price; ignored when not a number"
// @Param url formData string false "Product page URL"
// @Success 200 {string} string "HTML fragment"
// @Failure 400 {string} string "Missing title"
// @Failure 500 {string} string "Internal error"
// @Router /products/add [post]
func (s *Server) AddProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostForm.Get("title"))
	if title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	id, err := s.products.InsertManual(r.Context(), title, parsePrice(r.PostForm.Get("price")), optionalString(r.PostForm.Get("url")))
	if err != nil {
		s.serverError(w, r, "could not create product", err)
		return
	}
	s.log.WithField("id", id).Debug("product added")

	s.renderTable(w, r, firstPage)
}

// EditProductPageHandler godoc
// @Summary Edit form for a product
// @Tags products
// @Produce html
// @Param id path int true "Product ID"
// @Success 200 {string} string "HTML page"
// @Success 302 "Unknown product, redirects to /"
// @Failure 400 {string} string "Invalid ID"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/edit [get]
func (s *Server) EditProductPageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := s.products.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrProductNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		s.serverError(w, r, "could not fetch product", err)
		return
	}

	s.renderView(w, r, http.StatusOK, "product-edit", editView{AppName: appName, Product: product})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Blank titles become "Untitled". Unknown ids are ignored.
// @Tags products
// @Accept x-www-form-urlencoded
// @Param id path int true "Product ID"
// @Param title formData string false "Title"
// @Param price formData string false "Price; ignored when not a number"
// @Param url formData string false "Product page URL"
// @Success 302 "Redirects to /"
// @Failure 400 {string} string "Invalid ID"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/edit [post]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostForm.Get("title"))
	if title == "" {
		title = models.UntitledProduct
	}

	if _, err := s.products.UpdateProduct(r.Context(), id, title, parsePrice(r.PostForm.Get("price")), optionalString(r.PostForm.Get("url"))); err != nil {
		s.serverError(w, r, "could not update product", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Deleting an unknown id is a no-op. Returns the first page of the table.
// @Tags products
// @Produce html
// @Param id path int true "Product ID"
// @Success 200 {string} string "HTML fragment"
// @Failure 400 {string} string "Invalid ID"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/delete [post]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if _, err := s.products.DeleteByID(r.Context(), id); err != nil {
		s.serverError(w, r, "could not delete product", err)
		return
	}

	s.renderTable(w, r, firstPage)
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, q pageQuery) {
	products, err := s.products.FindPaged(r.Context(), q.request())
	if err != nil {
		s.serverError(w, r, "could not fetch products", err)
		return
	}
	s.renderView(w, r, http.StatusOK, "products-table", newTableView("/products", q, "", products))
}

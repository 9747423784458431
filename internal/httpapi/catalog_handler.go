package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/catalog"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product handle is required")
		return
	}

	product, err := h.svc.Product(r.Context(), handle)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

type CollectionResponseDTO struct {
	Handle      string            `json:"handle"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Image       string            `json:"image,omitempty"`
	Products    []catalog.Product `json:"products"`
	Page        int               `json:"page"`
	PerPage     int               `json:"perPage"`
	Total       int               `json:"total"`
}

// GetCollection serves a collection's products with the storefront's
// filter/sort/page query parameters applied.
func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "collection handle is required")
		return
	}

	col, err := h.svc.Collection(r.Context(), handle)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	q := r.URL.Query()

	filter := catalog.Filter{
		Vendor:        q.Get("vendor"),
		AvailableOnly: q.Get("available") == "true",
	}
	if raw := q.Get("min_price"); raw != "" {
		price, errParse := decimal.NewFromString(raw)
		if errParse != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "min_price must be a decimal number")
			return
		}
		filter.MinPrice = &price
	}
	if raw := q.Get("max_price"); raw != "" {
		price, errParse := decimal.NewFromString(raw)
		if errParse != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "max_price must be a decimal number")
			return
		}
		filter.MaxPrice = &price
	}

	products := catalog.ApplyFilter(col.Products, filter)
	catalog.SortProducts(products, catalog.SortKey(q.Get("sort")))

	page := intQuery(q.Get("page"), 1)
	perPage := intQuery(q.Get("per_page"), 24)
	total := len(products)
	products = catalog.Paginate(products, page, perPage)

	respondJSON(w, http.StatusOK, CollectionResponseDTO{
		Handle:      col.Handle,
		Title:       col.Title,
		Description: col.Description,
		Image:       col.Image,
		Products:    products,
		Page:        page,
		PerPage:     perPage,
		Total:       total,
	})
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, shopify.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	var fetchErr *catalog.FetchError
	if errors.As(err, &fetchErr) {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "catalog is temporarily unavailable")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

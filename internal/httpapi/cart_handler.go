package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/cart"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/catalog"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

// CatalogService is the catalog surface the HTTP layer depends on.
type CatalogService interface {
	Product(ctx context.Context, handle string) (*catalog.Product, error)
	Collection(ctx context.Context, handle string) (*catalog.Collection, error)
}

type CartHandler struct {
	store   *cart.Store
	catalog CatalogService
}

func NewCartHandler(store *cart.Store, catalogSvc CatalogService) *CartHandler {
	return &CartHandler{store: store, catalog: catalogSvc}
}

type AddItemRequestDTO struct {
	ProductHandle string `json:"productHandle"`
	VariantID     string `json:"variantId"`
	Quantity      int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}

type CartResponseDTO struct {
	cart.Cart
	TotalItems int    `json:"totalItems"`
	TotalPrice string `json:"totalPrice"`
}

func cartResponse(c cart.Cart) CartResponseDTO {
	return CartResponseDTO{
		Cart:       c,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(h.store.Get(sessionID)))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductHandle == "" || req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "productHandle and variantId are required")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductHandle)
	if err != nil {
		if errors.Is(err, shopify.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "could not load product")
		return
	}

	// An unknown variant leaves the cart unchanged.
	respondJSON(w, http.StatusCreated, cartResponse(h.store.AddItem(sessionID, product, req.VariantID, req.Quantity)))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.LineItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "lineItemId is required")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(h.store.UpdateQuantity(sessionID, req.LineItemID, req.Quantity)))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	lineItemID := r.URL.Query().Get("line_id")
	if lineItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "line_id query parameter is required")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(h.store.RemoveItem(sessionID, lineItemID)))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(h.store.Clear(sessionID)))
}

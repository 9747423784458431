package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/orders"
)

type OrderWebhookHandler struct {
	repo orders.RepoInterface
}

func NewOrderWebhookHandler(repo orders.RepoInterface) *OrderWebhookHandler {
	return &OrderWebhookHandler{repo: repo}
}

// orderWebhookPayload is the platform's order-creation webhook shape.
type orderWebhookPayload struct {
	ID          int64  `json:"id"`
	OrderNumber int64  `json:"order_number"`
	Email       string `json:"email"`
	Currency    string `json:"currency"`
	TotalPrice  string `json:"total_price"`
	CreatedAt   string `json:"created_at"`
	LineItems   []struct {
		ProductID int64  `json:"product_id"`
		VariantID int64  `json:"variant_id"`
		Title     string `json:"title"`
		Quantity  int    `json:"quantity"`
		Price     string `json:"price"`
	} `json:"line_items"`
}

// ReceiveOrder mirrors a completed platform order. The platform retries
// deliveries on non-2xx responses, so only persistent failures return 500;
// duplicates are acknowledged.
func (h *OrderWebhookHandler) ReceiveOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if payload.ID == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "order id is required")
		return
	}

	total, err := decimal.NewFromString(payload.TotalPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "total_price must be a decimal number")
		return
	}

	placedAt, err := time.Parse(time.RFC3339, payload.CreatedAt)
	if err != nil {
		placedAt = time.Now()
	}

	order := &orders.Order{
		PlatformID:  payload.ID,
		OrderNumber: payload.OrderNumber,
		Email:       payload.Email,
		Currency:    payload.Currency,
		TotalPrice:  total,
		PlacedAt:    placedAt,
	}
	for _, li := range payload.LineItems {
		order.LineItems = append(order.LineItems, orders.LineItem{
			ProductID: li.ProductID,
			VariantID: li.VariantID,
			Title:     li.Title,
			Quantity:  li.Quantity,
			Price:     li.Price,
		})
	}

	if err := h.repo.MirrorOrder(r.Context(), order); err != nil {
		log.Printf("failed to mirror order %d: %v", payload.ID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not mirror order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "mirrored"})
}

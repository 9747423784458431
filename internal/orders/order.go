package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one purchased line as reported by the platform webhook.
type LineItem struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// Order is the mirrored copy of a completed platform order. The platform
// stays the source of truth; the mirror only feeds storefront pages and
// downstream consumers.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	PlatformID  int64           `json:"platformId"`
	OrderNumber int64           `json:"orderNumber"`
	Email       string          `json:"email"`
	Currency    string          `json:"currency"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	LineItems   []LineItem      `json:"lineItems"`
	PlacedAt    time.Time       `json:"placedAt"`
	MirroredAt  time.Time       `json:"mirroredAt"`
}

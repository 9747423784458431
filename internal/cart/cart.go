package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

// Item is one cart line: a product variant, its quantity, and a snapshot of
// the product taken at add time. UnitPrice is never re-fetched on quantity
// changes.
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	Vendor    string          `json:"vendor,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineID builds the composite line key. At most one item exists per
// (product, variant) pair.
func LineID(productID, variantID string) string {
	return productID + "/" + variantID
}

// Cart is the session-scoped aggregate. Display order follows insertion
// order; pricing does not depend on it.
type Cart struct {
	SessionID   string    `json:"sessionId"`
	Items       []Item    `json:"items"`
	CheckoutID  string    `json:"checkoutId,omitempty"`
	CheckoutURL string    `json:"checkoutUrl,omitempty"`
	Version     uint64    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is Σ quantity × unitPrice, formatted to 2 decimal places.
func (c *Cart) TotalPrice() string {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.StringFixed(2)
}

// Lines projects the cart into the gateway's checkout-creation shape,
// preserving cart order.
func (c *Cart) Lines() []shopify.CheckoutLine {
	lines := make([]shopify.CheckoutLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, shopify.CheckoutLine{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (c *Cart) clone() Cart {
	out := *c
	out.Items = make([]Item, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

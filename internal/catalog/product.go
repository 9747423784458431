package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

// Variant is a purchasable SKU of a product.
type Variant struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// Product is the normalized display shape consumed by the cart and the
// storefront pages.
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Vendor      string    `json:"vendor"`
	Images      []string  `json:"images"`
	Variants    []Variant `json:"variants"`
}

// Collection groups products under a handle for storefront listing pages.
type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Products    []Product `json:"products"`
}

// Variant returns the variant with the given ID, if the product has one.
func (p *Product) Variant(id string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// MinPrice is the cheapest variant price, zero for a product with no variants.
func (p *Product) MinPrice() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	min := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(min) {
			min = v.Price
		}
	}
	return min
}

// Available reports whether any variant is purchasable.
func (p *Product) Available() bool {
	for _, v := range p.Variants {
		if v.Available {
			return true
		}
	}
	return false
}

func normalizeProduct(payload *shopify.ProductPayload) (*Product, error) {
	p := &Product{
		ID:          payload.ID,
		Handle:      payload.Handle,
		Title:       payload.Title,
		Description: payload.Description,
		Vendor:      payload.Vendor,
		Images:      payload.Images,
	}
	for _, v := range payload.Variants {
		price, err := decimal.NewFromString(v.Price)
		if err != nil {
			return nil, fmt.Errorf("variant %s has invalid price %q: %w", v.ID, v.Price, err)
		}
		p.Variants = append(p.Variants, Variant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     price,
			Available: v.Available,
		})
	}
	return p, nil
}

func normalizeCollection(payload *shopify.CollectionPayload) (*Collection, error) {
	c := &Collection{
		Handle:      payload.Handle,
		Title:       payload.Title,
		Description: payload.Description,
		Image:       payload.Image,
	}
	for i := range payload.Products {
		p, err := normalizeProduct(&payload.Products[i])
		if err != nil {
			return nil, err
		}
		c.Products = append(c.Products, *p)
	}
	return c, nil
}

package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows a product list for storefront listing pages.
type Filter struct {
	Vendor        string
	AvailableOnly bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

func ApplyFilter(products []Product, f Filter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Vendor != "" && !strings.EqualFold(p.Vendor, f.Vendor) {
			continue
		}
		if f.AvailableOnly && !p.Available() {
			continue
		}
		price := p.MinPrice()
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTitle     SortKey = "title"
)

// SortProducts orders products in place. Unknown keys leave the order as is.
func SortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].MinPrice().LessThan(products[j].MinPrice())
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].MinPrice().GreaterThan(products[j].MinPrice())
		})
	case SortTitle:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
		})
	}
}

// Paginate returns the 1-based page of the given size. Out-of-range pages
// yield an empty slice.
func Paginate(products []Product, page, perPage int) []Product {
	if page < 1 || perPage < 1 {
		return []Product{}
	}
	start := (page - 1) * perPage
	if start >= len(products) {
		return []Product{}
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

package shopify

import (
	"fmt"
	"strings"
)

// PermalinkURL builds the legacy cart permalink for the given lines:
// https://<domain>/cart/<numericVariantID>:<quantity>,... in line order.
// Pure string construction, never fails.
func PermalinkURL(domain string, lines []CheckoutLine) string {
	pairs := make([]string, 0, len(lines))
	for _, l := range lines {
		pairs = append(pairs, fmt.Sprintf("%s:%d", NumericID(l.VariantID), l.Quantity))
	}
	return fmt.Sprintf("https://%s/cart/%s", domain, strings.Join(pairs, ","))
}

package shopify

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeID_URIForm(t *testing.T) {
	gid := "gid://shopify/ProductVariant/12345"
	encoded := EncodeID(gid)

	assert.NotEqual(t, gid, encoded)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)
	assert.Equal(t, gid, string(decoded))
}

func TestEncodeID_PassthroughForNonURI(t *testing.T) {
	assert.Equal(t, "12345", EncodeID("12345"))
	assert.Equal(t, "", EncodeID(""))
}

func TestDecodeID_RoundTrip(t *testing.T) {
	gid := "gid://shopify/ProductVariant/12345"
	assert.Equal(t, gid, DecodeID(EncodeID(gid)))
	assert.Equal(t, gid, DecodeID(gid))
	assert.Equal(t, "not-base64!", DecodeID("not-base64!"))
}

func TestNumericID(t *testing.T) {
	assert.Equal(t, "12345", NumericID("gid://shopify/ProductVariant/12345"))
	assert.Equal(t, "12345", NumericID(EncodeID("gid://shopify/ProductVariant/12345")))
	assert.Equal(t, "12345", NumericID("gid://shopify/ProductVariant/12345?checkout=true"))
	assert.Equal(t, "plain-id", NumericID("plain-id"))
}

func TestPermalinkURL(t *testing.T) {
	lines := []CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/11", Quantity: 2},
		{VariantID: "gid://shopify/ProductVariant/12", Quantity: 1},
	}

	url := PermalinkURL("shop.example.com", lines)

	assert.Equal(t, "https://shop.example.com/cart/11:2,12:1", url)
}

func TestPermalinkURL_EmptyLines(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/cart/", PermalinkURL("shop.example.com", nil))
}

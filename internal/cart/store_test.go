package cart

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/catalog"
)

func testProduct() *catalog.Product {
	return &catalog.Product{
		ID:     "gid://shopify/Product/1",
		Handle: "lavender-diffuser",
		Title:  "Lavender Diffuser",
		Vendor: "AirCare",
		Images: []string{"https://cdn.example.com/lavender.jpg"},
		Variants: []catalog.Variant{
			{ID: "gid://shopify/ProductVariant/11", Title: "Small", Price: decimal.RequireFromString("10.00"), Available: true},
			{ID: "gid://shopify/ProductVariant/12", Title: "Large", Price: decimal.RequireFromString("24.50"), Available: true},
		},
	}
}

func TestAddItem_NewLine(t *testing.T) {
	store := NewStore()
	product := testProduct()

	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)

	require.Len(t, c.Items, 1)
	item := c.Items[0]
	assert.Equal(t, LineID(product.ID, "gid://shopify/ProductVariant/11"), item.ID)
	assert.Equal(t, "Lavender Diffuser", item.Title)
	assert.Equal(t, "https://cdn.example.com/lavender.jpg", item.Image)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestAddItem_ExistingPairIncrementsQuantity(t *testing.T) {
	store := NewStore()
	product := testProduct()

	store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)
	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 3)

	require.Len(t, c.Items, 1, "same (product, variant) pair must never duplicate")
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItem_UnknownVariantIsNoOp(t *testing.T) {
	store := NewStore()
	product := testProduct()

	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/999", 1)

	assert.Empty(t, c.Items)
	assert.Equal(t, uint64(0), c.Version, "no-op must not bump the version")
}

func TestAddItem_ZeroQuantityDefaultsToOne(t *testing.T) {
	store := NewStore()

	c := store.AddItem("s1", testProduct(), "gid://shopify/ProductVariant/11", 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateQuantity_SetsAbsoluteValue(t *testing.T) {
	store := NewStore()
	product := testProduct()
	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)

	c = store.UpdateQuantity("s1", c.Items[0].ID, 7)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity, "update is absolute, not additive")
}

func TestUpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	store := NewStore()
	product := testProduct()

	for _, quantity := range []int{0, -3} {
		c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)
		c = store.UpdateQuantity("s1", c.Items[0].ID, quantity)
		assert.Empty(t, c.Items)
	}
}

func TestUpdateQuantity_UnknownLineIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddItem("s1", testProduct(), "gid://shopify/ProductVariant/11", 2)

	c := store.UpdateQuantity("s1", "missing", 5)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddItem("s1", testProduct(), "gid://shopify/ProductVariant/11", 1)

	c := store.RemoveItem("s1", "missing")

	assert.Len(t, c.Items, 1)
}

func TestTotals_RecomputeAfterMutations(t *testing.T) {
	store := NewStore()
	product := testProduct()

	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)
	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, "20.00", c.TotalPrice())

	c = store.AddItem("s1", product, "gid://shopify/ProductVariant/12", 1)
	assert.Equal(t, 3, c.TotalItems())
	assert.Equal(t, "44.50", c.TotalPrice())

	c = store.UpdateQuantity("s1", LineID(product.ID, "gid://shopify/ProductVariant/12"), 2)
	assert.Equal(t, 4, c.TotalItems())
	assert.Equal(t, "69.00", c.TotalPrice())

	c = store.RemoveItem("s1", LineID(product.ID, "gid://shopify/ProductVariant/11"))
	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, "49.00", c.TotalPrice())
}

func TestEndToEnd_AddAddThenUpdateToZero(t *testing.T) {
	store := NewStore()
	product := testProduct()

	store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 2)
	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "30.00", c.TotalPrice())

	c = store.UpdateQuantity("s1", c.Items[0].ID, 0)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalItems())
}

func TestClear_EmptiesItemsAndCheckout(t *testing.T) {
	store := NewStore()
	c := store.AddItem("s1", testProduct(), "gid://shopify/ProductVariant/11", 1)
	require.True(t, store.SetCheckout("s1", c.Version, "chk-1", "https://shop/checkout/1"))

	c = store.Clear("s1")

	assert.Empty(t, c.Items)
	assert.Empty(t, c.CheckoutID)
	assert.Empty(t, c.CheckoutURL)
}

func TestSetCheckout_DiscardsStaleVersion(t *testing.T) {
	store := NewStore()
	product := testProduct()

	first := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 1)
	second := store.AddItem("s1", product, "gid://shopify/ProductVariant/12", 1)

	assert.False(t, store.SetCheckout("s1", first.Version, "stale", "https://shop/stale"))
	assert.True(t, store.SetCheckout("s1", second.Version, "fresh", "https://shop/fresh"))

	c := store.Get("s1")
	assert.Equal(t, "fresh", c.CheckoutID)
	assert.Equal(t, "https://shop/fresh", c.CheckoutURL)
}

func TestMutations_NotifyChangeListener(t *testing.T) {
	store := NewStore()
	product := testProduct()

	var mu sync.Mutex
	var versions []uint64
	store.SetChangeListener(func(sessionID string, version uint64) {
		mu.Lock()
		versions = append(versions, version)
		mu.Unlock()
	})

	c := store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 1)
	store.UpdateQuantity("s1", c.Items[0].ID, 3)
	store.RemoveItem("s1", c.Items[0].ID)
	store.Clear("s1")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2, 3, 4}, versions)
}

func TestSessions_AreIsolated(t *testing.T) {
	store := NewStore()
	product := testProduct()

	store.AddItem("s1", product, "gid://shopify/ProductVariant/11", 1)
	c2 := store.Get("s2")

	assert.Empty(t, c2.Items)
}

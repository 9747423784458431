package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/orders"
)

type ordersRepoMock struct {
	mirrored  []*orders.Order
	mirrorErr error
}

func (m *ordersRepoMock) MirrorOrder(_ context.Context, order *orders.Order) error {
	if m.mirrorErr != nil {
		return m.mirrorErr
	}
	m.mirrored = append(m.mirrored, order)
	return nil
}

func (m *ordersRepoMock) GetByPlatformID(context.Context, int64) (*orders.Order, error) {
	return nil, orders.ErrOrderNotFound
}

func (m *ordersRepoMock) ListByEmail(context.Context, string) ([]*orders.Order, error) {
	return nil, nil
}

func (m *ordersRepoMock) GetUnpublishedEvents(context.Context, int) ([]*orders.OutboxEvent, error) {
	return nil, nil
}

func (m *ordersRepoMock) MarkEventAsPublished(context.Context, int64) error {
	return nil
}

const orderWebhookBody = `{
	"id": 5501,
	"order_number": 1042,
	"email": "buyer@example.com",
	"currency": "USD",
	"total_price": "42.50",
	"created_at": "2024-03-01T10:00:00Z",
	"line_items": [
		{"product_id": 1, "variant_id": 11, "title": "Cedar Diffuser", "quantity": 2, "price": "10.00"}
	]
}`

func TestReceiveOrder_Mirrors(t *testing.T) {
	repo := &ordersRepoMock{}
	handler := NewOrderWebhookHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", bytes.NewReader([]byte(orderWebhookBody)))
	rec := httptest.NewRecorder()

	handler.ReceiveOrder(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.mirrored, 1)
	order := repo.mirrored[0]
	assert.Equal(t, int64(5501), order.PlatformID)
	assert.Equal(t, int64(1042), order.OrderNumber)
	assert.Equal(t, "42.5", order.TotalPrice.String())
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, 2, order.LineItems[0].Quantity)
}

func TestReceiveOrder_MissingID(t *testing.T) {
	handler := NewOrderWebhookHandler(&ordersRepoMock{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", bytes.NewReader([]byte(`{"total_price":"1.00"}`)))
	rec := httptest.NewRecorder()

	handler.ReceiveOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveOrder_BadTotal(t *testing.T) {
	handler := NewOrderWebhookHandler(&ordersRepoMock{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", bytes.NewReader([]byte(`{"id":1,"total_price":"not-a-number"}`)))
	rec := httptest.NewRecorder()

	handler.ReceiveOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveOrder_RepoFailure(t *testing.T) {
	handler := NewOrderWebhookHandler(&ordersRepoMock{mirrorErr: errors.New("db down")})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", bytes.NewReader([]byte(orderWebhookBody)))
	rec := httptest.NewRecorder()

	handler.ReceiveOrder(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cartItems() []models.CartItem {
	return []models.CartItem{
		{ID: "p1", Title: "Test Mattress", Price: 9999, Quantity: 1},
		{ID: "p2", Title: "Pillow", Price: 0.1, Quantity: 3},
	}
}

func TestSubmitQuoteSendsBothNotifications(t *testing.T) {
	transport := &recordingTransport{}
	svc := NewQuoteService(transport, "shop@example.com", zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	q, err := svc.Submit(context.Background(), models.Contact{Name: " A ", Phone: "555", Email: "a@b.com"}, cartItems())
	require.NoError(t, err)

	assert.Equal(t, "A", q.Contact.Name)
	assert.Equal(t, "9999.3", q.Cart.Total.String())
	require.Len(t, transport.sent, 2)
	assert.Equal(t, "a@b.com", transport.sent[0].To)
	assert.Equal(t, "shop@example.com", transport.sent[1].To)
}

func TestSubmitQuoteValidation(t *testing.T) {
	tests := []struct {
		name    string
		contact models.Contact
		items   []models.CartItem
		message string
	}{
		{"phone required", models.Contact{Name: "A", Phone: "", Email: "a@b.com"}, cartItems(), "phone is required"},
		{"name required", models.Contact{Name: " ", Phone: "1", Email: "a@b.com"}, cartItems(), "name is required"},
		{"email required", models.Contact{Name: "A", Phone: "1"}, cartItems(), "email is required"},
		{"email invalid", models.Contact{Name: "A", Phone: "1", Email: "not-an-email"}, cartItems(), "email is invalid"},
		{"empty cart", models.Contact{Name: "A", Phone: "1", Email: "a@b.com"}, nil, "cart is empty"},
		{"zero quantity", models.Contact{Name: "A", Phone: "1", Email: "a@b.com"},
			[]models.CartItem{{ID: "p1", Price: 1, Quantity: 0}}, "cart item quantity must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &recordingTransport{}
			svc := NewQuoteService(transport, "shop@example.com", zap.NewNop())

			_, err := svc.Submit(context.Background(), tt.contact, tt.items)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, transport.sent)
		})
	}
}

func TestSubmitQuotePartialFailureIsDispatchError(t *testing.T) {
	transport := &recordingTransport{failTo: map[string]bool{"shop@example.com": true}}
	svc := NewQuoteService(transport, "shop@example.com", zap.NewNop())

	_, err := svc.Submit(context.Background(), models.Contact{Name: "A", Phone: "1", Email: "a@b.com"}, cartItems())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDispatch, apperrors.KindOf(err))
	// the customer confirmation already went out and is not recalled
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "a@b.com", transport.sent[0].To)
}

func TestSubmitQuoteAttemptsMerchantAfterCustomerFailure(t *testing.T) {
	transport := &recordingTransport{failTo: map[string]bool{"a@b.com": true}}
	svc := NewQuoteService(transport, "shop@example.com", zap.NewNop())

	_, err := svc.Submit(context.Background(), models.Contact{Name: "A", Phone: "1", Email: "a@b.com"}, cartItems())
	assert.Equal(t, apperrors.KindDispatch, apperrors.KindOf(err))
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "shop@example.com", transport.sent[0].To)
}

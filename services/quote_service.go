package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/mailer"
	"github.com/princinho/sahomattress/models"
	"go.uber.org/zap"
)

// QuoteService turns a cart snapshot and contact details into two emails: a
// confirmation for the customer and an alert for the shop. Nothing is stored.
type QuoteService struct {
	transport mailer.Transport
	merchant  string
	log       *zap.Logger
	now       func() time.Time
}

func NewQuoteService(transport mailer.Transport, merchantEmail string, log *zap.Logger) *QuoteService {
	return &QuoteService{
		transport: transport,
		merchant:  merchantEmail,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateContact(c models.Contact) (models.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)

	switch {
	case c.Name == "":
		return c, apperrors.BadRequest("name is required")
	case c.Phone == "":
		return c, apperrors.BadRequest("phone is required")
	case c.Email == "":
		return c, apperrors.BadRequest("email is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, apperrors.BadRequest("email is invalid")
	}
	return c, nil
}

func validateItems(items []models.CartItem) error {
	if len(items) == 0 {
		return apperrors.BadRequest("cart is empty")
	}
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return apperrors.BadRequest("cart item id is required")
		}
		if item.Quantity < 1 {
			return apperrors.BadRequest("cart item quantity must be at least 1")
		}
		if item.Price < 0 {
			return apperrors.BadRequest("cart item price cannot be negative")
		}
	}
	return nil
}

// Submit makes exactly one attempt per notification. Both are attempted even
// if the first fails; any failure is reported as a dispatch error and a
// delivered message is not recalled.
func (s *QuoteService) Submit(ctx context.Context, contact models.Contact, items []models.CartItem) (*models.QuoteRequest, error) {
	contact, err := validateContact(contact)
	if err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	q := models.QuoteRequest{
		Contact:     contact,
		Cart:        models.NewCartSnapshot(items),
		RequestedAt: s.now(),
	}

	customer, err := mailer.CustomerConfirmation(q)
	if err != nil {
		return nil, apperrors.Internal("failed to render quote email", err)
	}
	merchant, err := mailer.MerchantAlert(q, s.merchant)
	if err != nil {
		return nil, apperrors.Internal("failed to render quote email", err)
	}

	var errs []error
	for _, msg := range []mailer.Message{customer, merchant} {
		if err := s.transport.Send(ctx, msg); err != nil {
			s.log.Error("quote notification failed", zap.String("to", msg.To), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, apperrors.Dispatch("failed to send quote request", errors.Join(errs...))
	}

	s.log.Info("quote request dispatched",
		zap.String("customer", contact.Email),
		zap.Int("items", len(items)),
		zap.String("total", q.Cart.Total.StringFixed(2)),
	)
	return &q, nil
}

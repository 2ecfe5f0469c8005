package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/princinho/sahomattress/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	customerSubject = "We received your quote request"
	merchantSubject = "New quote request"
)

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"line":  func(i models.CartItem) string { return i.LineTotal().StringFixed(2) },
	"price": func(p float64) string { return decimal.NewFromFloat(p).StringFixed(2) },
}).ParseFS(templateFS, "templates/*.html"))

func render(name string, q models.QuoteRequest) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, q); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// CustomerConfirmation is addressed to the contact who submitted the quote.
func CustomerConfirmation(q models.QuoteRequest) (Message, error) {
	body, err := render("customer_confirmation.html", q)
	if err != nil {
		return Message{}, err
	}
	return Message{To: q.Contact.Email, Subject: customerSubject, HTMLBody: body}, nil
}

// MerchantAlert notifies the shop; to is the admin notification address.
func MerchantAlert(q models.QuoteRequest, to string) (Message, error) {
	body, err := render("merchant_alert.html", q)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("%s from %s", merchantSubject, q.Contact.Name),
		HTMLBody: body,
	}, nil
}

package dto

type QuoteRequestItemDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	ImageURLs []string `json:"imageUrls"`
	Quantity  int      `json:"quantity"`
}

// CreateQuoteRequestDTO carries the contact details and the cart snapshot.
// Field presence is checked by the quote service so the error names the field.
type CreateQuoteRequestDTO struct {
	Name    string                `json:"name"`
	Phone   string                `json:"phone"`
	Email   string                `json:"email"`
	Message string                `json:"message"`
	Items   []QuoteRequestItemDTO `json:"items"`
}

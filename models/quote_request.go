package models

import "time"

type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// QuoteRequest lives only for the duration of a submission. It is rendered
// into the notification emails and never stored.
type QuoteRequest struct {
	Contact     Contact      `json:"contact"`
	Cart        CartSnapshot `json:"cart"`
	RequestedAt time.Time    `json:"requestedAt"`
}

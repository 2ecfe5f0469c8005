package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/models"
)

// storefrontClient talks to the public storefront endpoints.
type storefrontClient struct {
	baseURL string
	http    *http.Client
}

func newStorefrontClient(baseURL string) *storefrontClient {
	return &storefrontClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("storefront returned %d: %s", e.Status, e.Message)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &apiError{Status: resp.StatusCode, Message: body.Error}
}

func (c *storefrontClient) imageURL(id string) string {
	return c.baseURL + "/images/" + url.PathEscape(id)
}

func (c *storefrontClient) Product(ctx context.Context, id string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var p models.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

func (c *storefrontClient) SubmitQuote(ctx context.Context, contact models.Contact, items []models.CartItem) error {
	body := dto.CreateQuoteRequestDTO{
		Name:    contact.Name,
		Phone:   contact.Phone,
		Email:   contact.Email,
		Message: contact.Message,
		Items:   make([]dto.QuoteRequestItemDTO, 0, len(items)),
	}
	for _, it := range items {
		body.Items = append(body.Items, dto.QuoteRequestItemDTO{
			ID:        it.ID,
			Title:     it.Title,
			Price:     it.Price,
			ImageURLs: it.ImageURLs,
			Quantity:  it.Quantity,
		})
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quote-request", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

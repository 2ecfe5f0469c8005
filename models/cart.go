package models

import "github.com/shopspring/decimal"

// CartItem is one line of a cart. Title, price and images are copied from the
// catalog when the product is first added and are not refreshed afterwards.
type CartItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	ImageURLs []string `json:"imageUrls"`
	Quantity  int      `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot is a cart frozen at a point in time together with its total.
type CartSnapshot struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func NewCartSnapshot(items []CartItem) CartSnapshot {
	return CartSnapshot{
		Items: CloneCartItems(items),
		Total: Subtotal(items),
	}
}

// Subtotal is the sum of price x quantity over items.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func CloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		item.ImageURLs = append([]string(nil), item.ImageURLs...)
		out[i] = item
	}
	return out
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/princinho/sahomattress/cart"
	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type fakeStorefront struct {
	products map[string]models.Product
	quotes   []dto.CreateQuoteRequestDTO
}

func (f *fakeStorefront) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := f.products[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "product not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("POST /quote-request", func(w http.ResponseWriter, r *http.Request) {
		var body dto.CreateQuoteRequestDTO
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Phone == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "phone is required"})
			return
		}
		f.quotes = append(f.quotes, body)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	return mux
}

func run(t *testing.T, api, cartPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(zap.NewNop())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", api, "--cart", cartPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCartctlFlow(t *testing.T) {
	id := bson.NewObjectID()
	store := &fakeStorefront{products: map[string]models.Product{
		id.Hex(): {Id: id, Name: "Test Mattress", Price: 9999, Category: models.CategoryMattress, Sizes: []string{"Queen"}, Images: []string{"img1"}},
	}}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	cartPath := filepath.Join(t.TempDir(), "cart.json")

	_, err := run(t, srv.URL, cartPath, "add", id.Hex(), "--qty", "2")
	require.NoError(t, err)
	_, err = run(t, srv.URL, cartPath, "add", id.Hex())
	require.NoError(t, err)

	items, err := cart.NewFileStorage(cartPath).Load(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, []string{srv.URL + "/images/img1"}, items[0].ImageURLs)

	out, err := run(t, srv.URL, cartPath, "list", "--discount", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal: 29997.00")
	assert.Contains(t, out, "with 30% off: 20997.90")

	_, err = run(t, srv.URL, cartPath, "quote", "--name", "A", "--phone", "", "--email", "a@b.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone is required")

	_, err = run(t, srv.URL, cartPath, "quote", "--name", "A", "--phone", "555", "--email", "a@b.com")
	require.NoError(t, err)
	require.Len(t, store.quotes, 1)
	assert.Equal(t, 3, store.quotes[0].Items[0].Quantity)

	items, err = cart.NewFileStorage(cartPath).Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartctlSetAndRemove(t *testing.T) {
	id := bson.NewObjectID()
	store := &fakeStorefront{products: map[string]models.Product{
		id.Hex(): {Id: id, Name: "Pillow", Price: 20},
	}}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	cartPath := filepath.Join(t.TempDir(), "cart.json")

	_, err := run(t, srv.URL, cartPath, "add", id.Hex())
	require.NoError(t, err)
	_, err = run(t, srv.URL, cartPath, "set", id.Hex(), "5")
	require.NoError(t, err)

	items, err := cart.NewFileStorage(cartPath).Load(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	_, err = run(t, srv.URL, cartPath, "set", id.Hex(), "0")
	require.NoError(t, err)
	out, err := run(t, srv.URL, cartPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")

	_, err = run(t, srv.URL, cartPath, "add", "unknown")
	require.Error(t, err)
}

func TestPrintCart(t *testing.T) {
	var buf bytes.Buffer
	snap := models.NewCartSnapshot([]models.CartItem{{ID: "p1", Title: "Sheet", Price: 15.5, Quantity: 2}})
	printCart(&buf, snap, 0)
	assert.Contains(t, buf.String(), "subtotal: 31.00")
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(31)))
}

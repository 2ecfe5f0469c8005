package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/princinho/sahomattress/database"
	"github.com/princinho/sahomattress/mailer"
	"github.com/princinho/sahomattress/models"
	"github.com/princinho/sahomattress/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memProducts struct {
	mu    sync.Mutex
	items map[string]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: map[string]models.Product{}}
}

func (m *memProducts) List(ctx context.Context, category *models.Category) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.items {
		if category == nil || p.Category == *category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProducts) Create(ctx context.Context, f models.ProductFields) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.Product{
		Id: bson.NewObjectID(), Name: f.Name, Slug: f.Slug, Price: f.Price,
		Category: f.Category, Sizes: f.Sizes, Images: f.Images,
	}
	m.items[p.Id.Hex()] = p
	return &p, nil
}

func (m *memProducts) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Sizes != nil {
		p.Sizes = patch.Sizes
	}
	m.items[id] = p
	return &p, nil
}

func (m *memProducts) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memProducts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// flakyBlobs fails every upload after the first failAfter succeeded.
type flakyBlobs struct {
	*storage.MemoryStore
	failAfter int
	calls     int
}

func (f *flakyBlobs) Upload(ctx context.Context, name, ct string, r io.Reader, size int64) (string, error) {
	f.calls++
	if f.calls > f.failAfter {
		return "", errors.New("bucket unavailable")
	}
	return f.MemoryStore.Upload(ctx, name, ct, r, size)
}

type recordingTransport struct {
	sent   []mailer.Message
	failTo map[string]bool
}

func (r *recordingTransport) Send(ctx context.Context, msg mailer.Message) error {
	if r.failTo[msg.To] {
		return errors.New("smtp: connection refused")
	}
	r.sent = append(r.sent, msg)
	return nil
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func imageFile(name, contentType string, data []byte) ImageFile {
	return ImageFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// sizedImage reports size without holding the bytes in memory.
func sizedImage(name, contentType string, size int64) ImageFile {
	return ImageFile{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(io.LimitReader(zeroReader{}, size)), nil
		},
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// Package cart is the client-side cart: a list of line items kept in memory,
// written through to durable storage on every change and observable through
// Subscribe.
package cart

import (
	"context"
	"sync"

	"github.com/princinho/sahomattress/models"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the serialized cart lives under.
const StorageKey = "cart"

// Storage persists the whole item list. Load returns an empty list when
// nothing was saved yet.
type Storage interface {
	Load(ctx context.Context) ([]models.CartItem, error)
	Save(ctx context.Context, items []models.CartItem) error
}

// ItemMeta is the display data copied into the cart on first add.
type ItemMeta struct {
	Title     string
	Price     float64
	ImageURLs []string
}

type Listener func(items []models.CartItem)

type subscription struct {
	id int
	fn Listener
}

type Manager struct {
	storage Storage
	log     *zap.Logger

	// notifyMu serializes mutations end to end so listeners see snapshots in
	// the order the changes were made. Listeners must not mutate the cart.
	notifyMu sync.Mutex

	mu        sync.Mutex
	loaded    bool
	items     []models.CartItem
	listeners []subscription
	nextID    int
}

func NewManager(storage Storage, log *zap.Logger) *Manager {
	return &Manager{storage: storage, log: log}
}

// ensureLoaded must be called with mu held.
func (m *Manager) ensureLoaded(ctx context.Context) {
	if m.loaded {
		return
	}
	m.loaded = true
	items, err := m.storage.Load(ctx)
	if err != nil {
		m.log.Warn("could not load saved cart, starting empty", zap.Error(err))
		m.items = nil
		return
	}
	m.items = sanitize(items)
}

// sanitize drops entries that break the cart invariants: empty ids,
// quantities below one and repeated ids (first one wins).
func sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func (m *Manager) indexOf(id string) int {
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of an existing line or appends a new one.
// Metadata of an existing line is kept as first added.
func (m *Manager) AddItem(ctx context.Context, id string, quantity int, meta ItemMeta) error {
	if quantity < 1 {
		return nil
	}
	return m.mutate(ctx, func() bool {
		if i := m.indexOf(id); i >= 0 {
			m.items[i].Quantity += quantity
			return true
		}
		m.items = append(m.items, models.CartItem{
			ID:        id,
			Title:     meta.Title,
			Price:     meta.Price,
			ImageURLs: append([]string(nil), meta.ImageURLs...),
			Quantity:  quantity,
		})
		return true
	})
}

// RemoveItem is a no-op when id is not in the cart.
func (m *Manager) RemoveItem(ctx context.Context, id string) error {
	return m.mutate(ctx, func() bool {
		i := m.indexOf(id)
		if i < 0 {
			return false
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		return true
	})
}

// UpdateItemQty sets the quantity in place; zero or less removes the line.
func (m *Manager) UpdateItemQty(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveItem(ctx, id)
	}
	return m.mutate(ctx, func() bool {
		i := m.indexOf(id)
		if i < 0 {
			return false
		}
		m.items[i].Quantity = quantity
		return true
	})
}

func (m *Manager) Clear(ctx context.Context) error {
	return m.mutate(ctx, func() bool {
		m.items = nil
		return true
	})
}

// Items returns a copy of the current lines.
func (m *Manager) Items(ctx context.Context) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	return models.CloneCartItems(m.items)
}

func (m *Manager) Snapshot(ctx context.Context) models.CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	return models.NewCartSnapshot(m.items)
}

// Subscribe registers fn for every change and returns a func that removes it.
// Listeners are called in subscription order and each receives its own copy
// of the items.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.listeners {
			if sub.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// mutate applies change under the lock. When change reports a modification the
// cart is saved and listeners are called after the lock is released. The
// in-memory state is kept even when saving fails.
func (m *Manager) mutate(ctx context.Context, change func() bool) error {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.ensureLoaded(ctx)
	if !change() {
		m.mu.Unlock()
		return nil
	}
	items := models.CloneCartItems(m.items)
	err := m.storage.Save(ctx, items)
	if err != nil {
		m.log.Error("could not save cart", zap.Error(err))
	}
	listeners := make([]Listener, 0, len(m.listeners))
	for _, sub := range m.listeners {
		listeners = append(listeners, sub.fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(models.CloneCartItems(items))
	}
	return err
}

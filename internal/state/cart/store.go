// Package cart implements the cart aggregate store: insertion-ordered line
// items with synchronously maintained totals, persisted across sessions.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/persistence"
	"github.com/example/storefront/internal/state"
)

// StorageKey is the persistence namespace for the cart store.
const StorageKey = "cart-storage"

// Item is one cart line: a single product id and its quantity. The product
// is a snapshot copy, so later catalog changes do not affect the line.
type Item struct {
	ID       string          `json:"id"`
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

type persistedState struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// Store holds the cart. At most one line exists per product id: adding an
// existing product merges into its line. Total and ItemCount are recomputed
// synchronously on every mutation and are never stale.
type Store struct {
	mu        sync.Mutex
	items     []Item
	index     map[string]int // product id -> position in items
	total     float64
	itemCount int
	kv        persistence.KV
	subs      state.Broadcaster
}

// NewStore rehydrates the cart from kv. A missing or corrupt payload yields
// an empty cart.
func NewStore(kv persistence.KV) *Store {
	s := &Store{
		index: make(map[string]int),
		kv:    kv,
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.kv == nil {
		return
	}
	payload, ok, err := s.kv.Load(context.Background(), StorageKey)
	if err != nil {
		log.Printf("[Cart] Failed to load persisted state: %v", err)
		return
	}
	if !ok {
		return
	}
	var persisted persistedState
	if err := json.Unmarshal(payload, &persisted); err != nil {
		log.Printf("[Cart] Discarding corrupt persisted state: %v", err)
		return
	}
	s.items = persisted.Items
	s.reindex()
	s.recompute()
}

// Subscribe registers a listener invoked after every committed mutation.
func (s *Store) Subscribe(listener func()) (unsubscribe func()) {
	return s.subs.Subscribe(listener)
}

// AddItem merges quantity into an existing line for the product, or appends a
// fresh line. It never fails; quantities are taken as given.
func (s *Store) AddItem(product catalog.Product, quantity int) {
	s.mu.Lock()
	if i, ok := s.index[product.ID]; ok {
		s.items[i].Quantity += quantity
	} else {
		now := time.Now()
		s.items = append(s.items, Item{
			ID:       fmt.Sprintf("%s-%d", product.ID, now.UnixMilli()),
			Product:  product,
			Quantity: quantity,
			AddedAt:  now,
		})
		s.index[product.ID] = len(s.items) - 1
	}
	s.recompute()
	s.persist()
	s.mu.Unlock()

	s.subs.Notify()
}

// RemoveItem drops the line for the product. Absent ids are a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	i, ok := s.index[productID]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	s.recompute()
	s.persist()
	s.mu.Unlock()

	s.subs.Notify()
}

// UpdateQuantity sets the line's quantity exactly. A quantity <= 0 removes
// the line. Absent ids are a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	i, ok := s.index[productID]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity = quantity
	s.recompute()
	s.persist()
	s.mu.Unlock()

	s.subs.Notify()
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	s.recompute()
	s.persist()
	s.mu.Unlock()

	s.subs.Notify()
}

// GetItemQuantity returns the quantity in the line for the product, or 0.
// It never mutates state.
func (s *Store) GetItemQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[productID]; ok {
		return s.items[i].Quantity
	}
	return 0
}

// Items returns the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// recompute rebuilds total and itemCount from the lines. Callers hold s.mu.
func (s *Store) recompute() {
	total := 0.0
	count := 0
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
		count += item.Quantity
	}
	s.total = total
	s.itemCount = count
}

// reindex rebuilds the product-id index. Callers hold s.mu.
func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, item := range s.items {
		s.index[item.Product.ID] = i
	}
}

// persist writes the cart to kv, best-effort: a failed write is logged and
// the in-memory state stands. Callers hold s.mu.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	payload, err := json.Marshal(persistedState{
		Items:     s.items,
		Total:     s.total,
		ItemCount: s.itemCount,
	})
	if err != nil {
		log.Printf("[Cart] Failed to serialize state: %v", err)
		return
	}
	if err := s.kv.Save(context.Background(), StorageKey, payload); err != nil {
		log.Printf("[Cart] Failed to persist state: %v", err)
	}
}

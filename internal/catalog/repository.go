package catalog

import (
	"context"
	"errors"
	"sync"
)

var ErrDuplicateID = errors.New("id already exists")

// Repository is the storage behind the catalog stub.
type Repository interface {
	Products(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	InsertProduct(ctx context.Context, p Product) error
	InsertCategory(ctx context.Context, c Category) error
}

// MemoryRepository is a mutex-guarded in-memory Repository.
type MemoryRepository struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Products(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryRepository) Categories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *MemoryRepository) InsertProduct(ctx context.Context, p Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.ID == p.ID {
			return ErrDuplicateID
		}
	}
	r.products = append(r.products, p)
	return nil
}

func (r *MemoryRepository) InsertCategory(ctx context.Context, c Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.ID == c.ID {
			return ErrDuplicateID
		}
	}
	r.categories = append(r.categories, c)
	return nil
}

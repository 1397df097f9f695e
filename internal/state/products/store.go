// Package products implements the product query store: filter/sort/pagination
// state plus the current page snapshot re-derived from the catalog on every
// state change.
package products

import (
	"context"
	"log"
	"sync"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/state"
)

// Catalog is the slice of the catalog contract this store consumes.
type Catalog interface {
	GetProducts(ctx context.Context, params catalog.QueryParams) (*catalog.ProductsResponse, error)
	GetCategories(ctx context.Context) ([]catalog.Category, error)
}

// Store owns the query state. Setters commit their state change
// synchronously, notify subscribers, then spawn an unawaited fetch; no
// ordering exists between overlapping fetches, so the last one to complete
// wins even if it was issued first. Responses always replace the snapshot
// wholesale.
type Store struct {
	mu         sync.Mutex
	products   []catalog.Product
	categories []catalog.Category
	filters    catalog.Filters
	sort       catalog.Sort
	pagination catalog.Pagination
	isLoading  bool
	errMsg     string
	api        Catalog
	subs       state.Broadcaster
}

func NewStore(api Catalog) *Store {
	return &Store{
		api:        api,
		sort:       catalog.DefaultSort(),
		pagination: catalog.Pagination{Page: 1, Limit: catalog.DefaultLimit},
	}
}

// Subscribe registers a listener invoked after every committed mutation.
func (s *Store) Subscribe(listener func()) (unsubscribe func()) {
	return s.subs.Subscribe(listener)
}

// FetchProducts queries the catalog with the current filters, sort and page,
// and replaces the snapshot with the result. On failure the snapshot is
// cleared and the failure message kept as error state; the error never
// escapes the store.
func (s *Store) FetchProducts(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	sortSpec := s.sort
	params := catalog.QueryParams{
		Filters: s.filters,
		Sort:    &sortSpec,
		Page:    s.pagination.Page,
		Limit:   s.pagination.Limit,
	}
	s.mu.Unlock()
	s.subs.Notify()

	resp, err := s.api.GetProducts(ctx, params)

	s.mu.Lock()
	if err != nil {
		s.products = nil
		s.isLoading = false
		s.errMsg = err.Error()
	} else {
		s.products = resp.Products
		s.categories = resp.Categories
		s.pagination = resp.Pagination
		s.isLoading = false
		s.errMsg = ""
	}
	s.mu.Unlock()
	s.subs.Notify()
}

// FetchCategories refreshes the facet list only. Failures are logged, not
// stored.
func (s *Store) FetchCategories(ctx context.Context) {
	categories, err := s.api.GetCategories(ctx)
	if err != nil {
		log.Printf("[Products] Failed to fetch categories: %v", err)
		return
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	s.subs.Notify()
}

// SetFilters applies merge to the current filters (assign a field's zero
// value to clear that constraint), resets the page to 1 and spawns a fetch.
func (s *Store) SetFilters(ctx context.Context, merge func(*catalog.Filters)) {
	s.mu.Lock()
	merge(&s.filters)
	s.pagination.Page = 1
	s.mu.Unlock()
	s.subs.Notify()

	go s.FetchProducts(ctx)
}

// SetSort replaces the sort wholesale, resets the page to 1 and spawns a
// fetch.
func (s *Store) SetSort(ctx context.Context, sortSpec catalog.Sort) {
	s.mu.Lock()
	s.sort = sortSpec
	s.pagination.Page = 1
	s.mu.Unlock()
	s.subs.Notify()

	go s.FetchProducts(ctx)
}

// SetPagination merges page and limit (zero leaves a field unchanged) and
// spawns a fetch. The page is not clamped; callers must stay in range.
func (s *Store) SetPagination(ctx context.Context, page, limit int) {
	s.mu.Lock()
	if page > 0 {
		s.pagination.Page = page
	}
	if limit > 0 {
		s.pagination.Limit = limit
	}
	s.mu.Unlock()
	s.subs.Notify()

	go s.FetchProducts(ctx)
}

// ClearFilters resets all filters, resets the page to 1 and spawns a fetch.
func (s *Store) ClearFilters(ctx context.Context) {
	s.mu.Lock()
	s.filters = catalog.Filters{}
	s.pagination.Page = 1
	s.mu.Unlock()
	s.subs.Notify()

	go s.FetchProducts(ctx)
}

// ClearError clears the error state only.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.subs.Notify()
}

// Products returns the current page snapshot.
func (s *Store) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Categories() []catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Filters() catalog.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Store) Sort() catalog.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Store) Pagination() catalog.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the stored failure message, empty when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

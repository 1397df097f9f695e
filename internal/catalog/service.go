package catalog

import (
	"context"
	"time"
)

// Service is the Catalog Query Service stub. Every call simulates network
// latency and must be treated by callers as asynchronous with no completion
// ordering between overlapping calls.
type Service struct {
	repo    Repository
	latency time.Duration
}

// NewService wraps a repository. latency <= 0 disables the simulated delay.
func NewService(repo Repository, latency time.Duration) *Service {
	return &Service{repo: repo, latency: latency}
}

func (s *Service) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetProducts filters, sorts and paginates the full product set and returns
// the page slice together with facets and pre-slice totals.
func (s *Service) GetProducts(ctx context.Context, params QueryParams) (*ProductsResponse, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	sortSpec := DefaultSort()
	if params.Sort != nil {
		sortSpec = *params.Sort
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	all, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilters(all, params.Filters)
	sorted := ApplySorting(filtered, sortSpec)
	pageItems, pagination := ApplyPagination(sorted, page, limit)

	return &ProductsResponse{
		Products:   pageItems,
		Pagination: pagination,
		Categories: categories,
	}, nil
}

// GetProduct returns the product with the given id, or nil if absent.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	return s.repo.Categories(ctx)
}

// GetFeaturedProducts returns all products flagged as featured.
func (s *Service) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]Product, 0)
	for _, p := range all {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// SearchProducts matches a case-insensitive substring over name, description
// and brand.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	all, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Product, 0)
	for _, p := range all {
		if searchText(p, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

package catalog

import "time"

// Product is a read-through snapshot owned by the catalog. Once fetched it is
// never mutated; cart lines copy it so later catalog changes cannot leak in.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"` // > Price implies a discount
	Image         string    `json:"image,omitempty"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand,omitempty"`
	Rating        float64   `json:"rating"` // 0..5
	Reviews       int       `json:"reviews"`
	InStock       bool      `json:"in_stock"`
	Featured      bool      `json:"featured"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Category is a facet: its ProductCount is denormalized by the catalog and is
// never recomputed client-side.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	ProductCount int    `json:"product_count"`
}

// PriceRange is an inclusive price window.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Filters is a conjunction of optional predicates. The zero value of every
// field means "no constraint", not "match empty": an empty Category matches
// everything, a nil PriceRange skips the price check, and so on.
type Filters struct {
	Category   string      `json:"category,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	MinRating  float64     `json:"min_rating,omitempty"`
	InStock    *bool       `json:"in_stock,omitempty"`
	Featured   *bool       `json:"featured,omitempty"`
	Brand      string      `json:"brand,omitempty"`
	Tags       []string    `json:"tags,omitempty"` // any-match against product tags
	Search     string      `json:"search,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f Filters) IsZero() bool {
	return f.Category == "" && f.PriceRange == nil && f.MinRating == 0 &&
		f.InStock == nil && f.Featured == nil && f.Brand == "" &&
		len(f.Tags) == 0 && f.Search == ""
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByRating    SortField = "rating"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort selects a field comparator and a direction.
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort is newest-first, matching the catalog default.
func DefaultSort() Sort {
	return Sort{Field: SortByCreatedAt, Order: SortDesc}
}

// Pagination is 1-indexed. Total is the post-filter, pre-slice count.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// QueryParams is the request side of the catalog contract.
type QueryParams struct {
	Filters Filters
	Sort    *Sort // nil means DefaultSort
	Page    int   // <= 0 means 1
	Limit   int   // <= 0 means DefaultLimit
}

// ProductsResponse is the response side of the catalog contract.
type ProductsResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
	Categories []Category `json:"categories"`
}

const DefaultLimit = 12

package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyFilters returns the products satisfying every present predicate, in
// input order. Tags use any-match within the list, AND against the rest.
func ApplyFilters(products []Product, f Filters) []Product {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p Product, f Filters) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.PriceRange != nil && (p.Price < f.PriceRange.Min || p.Price > f.PriceRange.Max) {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Search != "" && !searchText(p, f.Search) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(p.Tags, f.Tags) {
		return false
	}
	return true
}

func searchText(p Product, query string) bool {
	haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Brand)
	return strings.Contains(haystack, strings.ToLower(query))
}

func hasAnyTag(productTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range productTags {
			if t == w {
				return true
			}
		}
	}
	return false
}

// ApplySorting returns a sorted copy of products. The sort is stable: ties
// under the comparator keep their relative input order. Name ordering is
// locale-aware.
func ApplySorting(products []Product, s Sort) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	var cmp func(a, b Product) int
	switch s.Field {
	case SortByName:
		col := collate.New(language.English)
		cmp = func(a, b Product) int { return col.CompareString(a.Name, b.Name) }
	case SortByPrice:
		cmp = func(a, b Product) int { return compareFloat(a.Price, b.Price) }
	case SortByRating:
		cmp = func(a, b Product) int { return compareFloat(a.Rating, b.Rating) }
	case SortByCreatedAt:
		cmp = func(a, b Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if s.Order == SortAsc {
			return c < 0
		}
		return c > 0
	})
	return sorted
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ApplyPagination slices the filtered+sorted list for a 1-indexed page and
// reports the pre-slice totals. TotalPages is ceil(total/limit), 0 when the
// list is empty. Out-of-range pages yield an empty slice, not an error.
func ApplyPagination(products []Product, page, limit int) ([]Product, Pagination) {
	total := len(products)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start < 0 || start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}

	pageItems := make([]Product, end-start)
	copy(pageItems, products[start:end])

	return pageItems, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

package catalog

import (
	"context"
	"time"
)

// NewSeededRepository returns a repository preloaded with the demo dataset.
func NewSeededRepository() *MemoryRepository {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for _, c := range seedCategories() {
		_ = repo.InsertCategory(ctx, c)
	}
	for _, p := range seedProducts() {
		_ = repo.InsertProduct(ctx, p)
	}
	return repo
}

func seedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Electronics", Slug: "electronics", Description: "Latest gadgets and electronic devices", ProductCount: 45},
		{ID: "2", Name: "Clothing", Slug: "clothing", Description: "Fashion and apparel for all", ProductCount: 32},
		{ID: "3", Name: "Home & Garden", Slug: "home-garden", Description: "Everything for your home and garden", ProductCount: 28},
		{ID: "4", Name: "Sports", Slug: "sports", Description: "Sports equipment and accessories", ProductCount: 19},
		{ID: "5", Name: "Books", Slug: "books", Description: "Books, magazines, and educational materials", ProductCount: 15},
	}
}

func seedProducts() []Product {
	day := func(d int) time.Time {
		return time.Date(2024, time.January, d, 10, 0, 0, 0, time.UTC)
	}
	return []Product{
		{
			ID: "1", Name: "Wireless Bluetooth Headphones",
			Description:   "Premium noise-cancelling wireless headphones with 30-hour battery life",
			Price:         199.99,
			OriginalPrice: 249.99,
			Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop",
			Category:      "Electronics", Brand: "AudioTech",
			Rating: 4.8, Reviews: 124, InStock: true, Featured: true,
			Tags:      []string{"wireless", "bluetooth", "noise-cancelling"},
			CreatedAt: day(15),
		},
		{
			ID: "2", Name: "Smartwatch Pro",
			Description: "Advanced fitness tracking smartwatch with heart rate monitoring",
			Price:       299.99,
			Image:       "https://images.unsplash.com/photo-1544117519-31a4b719223d?w=400&h=400&fit=crop",
			Category:    "Electronics", Brand: "TechWear",
			Rating: 4.6, Reviews: 89, InStock: true, Featured: true,
			Tags:      []string{"smartwatch", "fitness", "health"},
			CreatedAt: day(14),
		},
		{
			ID: "3", Name: "Organic Cotton T-Shirt",
			Description:   "Sustainable and comfortable organic cotton t-shirt",
			Price:         29.99,
			OriginalPrice: 39.99,
			Image:         "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop",
			Category:      "Clothing", Brand: "EcoWear",
			Rating: 4.4, Reviews: 56, InStock: true, Featured: false,
			Tags:      []string{"organic", "cotton", "sustainable"},
			CreatedAt: day(13),
		},
		{
			ID: "4", Name: "Modern Desk Lamp",
			Description: "Minimalist LED desk lamp with adjustable brightness",
			Price:       79.99,
			Image:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop",
			Category:    "Home & Garden", Brand: "LightCraft",
			Rating: 4.7, Reviews: 32, InStock: true, Featured: false,
			Tags:      []string{"led", "desk", "minimalist"},
			CreatedAt: day(12),
		},
		{
			ID: "5", Name: "Running Shoes",
			Description:   "High-performance running shoes with advanced cushioning",
			Price:         129.99,
			OriginalPrice: 159.99,
			Image:         "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop",
			Category:      "Sports", Brand: "RunFast",
			Rating: 4.5, Reviews: 78, InStock: true, Featured: true,
			Tags:      []string{"running", "sports", "comfort"},
			CreatedAt: day(11),
		},
		{
			ID: "6", Name: "Laptop Backpack",
			Description: "Durable laptop backpack with multiple compartments",
			Price:       59.99,
			Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=400&fit=crop",
			Category:    "Electronics", Brand: "CarryTech",
			Rating: 4.3, Reviews: 45, InStock: true, Featured: false,
			Tags:      []string{"laptop", "backpack", "travel"},
			CreatedAt: day(10),
		},
		{
			ID: "7", Name: "Ceramic Coffee Mug",
			Description: "Handcrafted ceramic coffee mug with unique design",
			Price:       19.99,
			Image:       "https://images.unsplash.com/photo-1544787219-7f47ccb76574?w=400&h=400&fit=crop",
			Category:    "Home & Garden", Brand: "CraftWare",
			Rating: 4.6, Reviews: 23, InStock: true, Featured: false,
			Tags:      []string{"ceramic", "coffee", "handcrafted"},
			CreatedAt: day(9),
		},
		{
			ID: "8", Name: "Programming Book",
			Description: "Complete guide to modern web development",
			Price:       49.99,
			Image:       "https://images.unsplash.com/photo-1532012197267-da84d127e765?w=400&h=400&fit=crop",
			Category:    "Books", Brand: "TechPress",
			Rating: 4.9, Reviews: 67, InStock: true, Featured: true,
			Tags:      []string{"programming", "web", "development"},
			CreatedAt: day(8),
		},
	}
}

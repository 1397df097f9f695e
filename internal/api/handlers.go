package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/state/cart"
	"github.com/example/storefront/internal/state/session"
)

// Handlers is the HTTP surface over the stores and the catalog stub. It is a
// stand-in for the view layer: one client, one cart, one session.
type Handlers struct {
	catalog *catalog.Service
	cart    *cart.Store
	session *session.Store
}

func NewHandlers(catalogSvc *catalog.Service, cartStore *cart.Store, sessionStore *session.Store) *Handlers {
	return &Handlers{
		catalog: catalogSvc,
		cart:    cartStore,
		session: sessionStore,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	params := parseQueryParams(r)
	resp, err := h.catalog.GetProducts(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.GetCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	featured, err := h.catalog.GetFeaturedProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, featured)
}

func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// Cart Handlers

type cartResponse struct {
	Items     []cart.Item `json:"items"`
	Total     float64     `json:"total"`
	ItemCount int         `json:"item_count"`
}

func (h *Handlers) cartSnapshot() cartResponse {
	return cartResponse{
		Items:     h.cart.Items(),
		Total:     h.cart.Total(),
		ItemCount: h.cart.ItemCount(),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	h.cart.AddItem(*product, req.Quantity)
	respondJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.cart.UpdateQuantity(productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")
	h.cart.RemoveItem(productID)
	respondJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart()
	respondJSON(w, http.StatusOK, h.cartSnapshot())
}

// Checkout returns the order summary for the signed-in user.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"user":       h.session.User(),
		"items":      h.cart.Items(),
		"total":      h.cart.Total(),
		"item_count": h.cart.ItemCount(),
	})
}

// Auth Handlers

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.session.Login(r.Context(), creds); err != nil {
		respondJSON(w, authErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  h.session.User(),
		"token": h.session.Token(),
	})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var reg auth.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.session.Register(r.Context(), reg); err != nil {
		respondJSON(w, authErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":  h.session.User(),
		"token": h.session.Token(),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    claims.UserID,
		"email": claims.Email,
	})
}

// authErrorStatus maps wrong credentials to 401 and validation failures to
// 400; both carry the same shape so the classes stay indistinguishable
// beyond the status code.
func authErrorStatus(err error) int {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

// Helper functions

func parseQueryParams(r *http.Request) catalog.QueryParams {
	q := r.URL.Query()
	params := catalog.QueryParams{}

	params.Filters.Category = q.Get("category")
	params.Filters.Brand = q.Get("brand")
	params.Filters.Search = q.Get("search")
	if tags := q.Get("tags"); tags != "" {
		params.Filters.Tags = strings.Split(tags, ",")
	}
	if v, err := strconv.ParseFloat(q.Get("min_rating"), 64); err == nil {
		params.Filters.MinRating = v
	}
	if v, err := strconv.ParseBool(q.Get("in_stock")); err == nil {
		params.Filters.InStock = &v
	}
	if v, err := strconv.ParseBool(q.Get("featured")); err == nil {
		params.Filters.Featured = &v
	}
	if q.Has("min_price") || q.Has("max_price") {
		pr := catalog.PriceRange{Min: 0, Max: math.MaxFloat64}
		if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
			pr.Min = v
		}
		if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
			pr.Max = v
		}
		params.Filters.PriceRange = &pr
	}

	if field := q.Get("sort"); field != "" {
		sortSpec := catalog.Sort{Field: catalog.SortField(field), Order: catalog.SortDesc}
		if order := q.Get("order"); order != "" {
			sortSpec.Order = catalog.SortOrder(order)
		}
		params.Sort = &sortSpec
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = v
	}

	return params
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

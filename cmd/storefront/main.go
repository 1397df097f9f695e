package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/persistence"
	"github.com/example/storefront/internal/state/cart"
	"github.com/example/storefront/internal/state/products"
	"github.com/example/storefront/internal/state/session"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Storefront] Configuration error: %v", err)
	}

	log.Println("[Storefront] ========================================")
	log.Println("[Storefront] Storefront - Mock Catalog Mode")
	log.Println("[Storefront] ========================================")
	log.Printf("[Storefront] Addr:            %s", cfg.Addr)
	log.Printf("[Storefront] Catalog latency: %s", cfg.CatalogLatency)
	log.Printf("[Storefront] Auth latency:    %s", cfg.AuthLatency)

	// Durable local storage for cart and session state
	var kv persistence.KV
	if cfg.DatabasePath == "" {
		log.Println("[Storefront] No DATABASE_PATH set, state will not survive restarts")
		kv = persistence.NewMemory()
	} else {
		db, err := persistence.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("[Storefront] Failed to open storage: %v", err)
		}
		defer db.Close()
		log.Printf("[Storefront] Storage:         %s", cfg.DatabasePath)
		kv = db
	}

	// External collaborators (mock)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	catalogSvc := catalog.NewService(catalog.NewSeededRepository(), cfg.CatalogLatency)
	authSvc := auth.NewService(tokens, cfg.AuthLatency)

	// Client state stores, rehydrated from storage
	productStore := products.NewStore(catalogSvc)
	cartStore := cart.NewStore(kv)
	sessionStore := session.NewStore(authSvc, kv)
	sessionStore.CheckAuth()

	if cartStore.ItemCount() > 0 {
		log.Printf("[Storefront] Restored cart: %d item(s), total %.2f", cartStore.ItemCount(), cartStore.Total())
	}
	if sessionStore.IsAuthenticated() {
		log.Printf("[Storefront] Restored session for %s", sessionStore.User().Email)
	}

	productStore.Subscribe(func() {
		if productStore.IsLoading() {
			return
		}
		if msg := productStore.Err(); msg != "" {
			log.Printf("[Storefront] Catalog query failed: %s", msg)
			return
		}
		p := productStore.Pagination()
		log.Printf("[Storefront] Catalog view: %d of %d product(s), page %d/%d",
			len(productStore.Products()), p.Total, p.Page, p.TotalPages)
	})

	// Warm the initial product view in the background
	go productStore.FetchProducts(ctx)

	router := api.NewRouter(api.RouterConfig{
		Handlers: api.NewHandlers(catalogSvc, cartStore, sessionStore),
		Tokens:   tokens,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[Storefront] Server started on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Storefront] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Storefront] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

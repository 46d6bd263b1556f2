// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/handlers/middleware"
)

const apiV1 = "/api/v1"

// Handlers groups the API handlers mounted by NewRouter
type Handlers struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Stock     *StockHandler
	Cart      *CartHandler
	Suppliers *SupplierHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Health    *HealthHandler
}

// RouterConfig holds the middleware settings
type RouterConfig struct {
	RequestIDHeader   string
	AllowedOrigins    []string
	SecureHeaders     bool
	RateLimitRequests int
	RateLimitDuration time.Duration
	RequestTimeout    time.Duration
}

// NewRouter mounts every route behind the middleware chain. Everything under
// /api/v1 except login requires a bearer token.
func NewRouter(h Handlers, auth ports.AuthService, cfg RouterConfig, logger *slog.Logger) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST "+apiV1+"/users", h.Auth.Register)

	api.HandleFunc("GET "+apiV1+"/dashboard", h.Dashboard.GetDashboard)
	api.HandleFunc("POST "+apiV1+"/dashboard/refresh", h.Dashboard.RefreshDashboard)

	api.HandleFunc("GET "+apiV1+"/products", h.Products.ListProducts)
	api.HandleFunc("POST "+apiV1+"/products", h.Products.CreateProduct)
	api.HandleFunc("POST "+apiV1+"/products/import", h.Products.ImportProducts)
	api.HandleFunc("GET "+apiV1+"/products/{id}", h.Products.GetProduct)
	api.HandleFunc("PUT "+apiV1+"/products/{id}", h.Products.UpdateProduct)
	api.HandleFunc("DELETE "+apiV1+"/products/{id}", h.Products.DeleteProduct)

	api.HandleFunc("POST "+apiV1+"/packages", h.Stock.ReceivePackage)
	api.HandleFunc("GET "+apiV1+"/packages/{barcode}", h.Stock.GetPackage)

	api.HandleFunc("POST "+apiV1+"/cart/items", h.Cart.AddItem)
	api.HandleFunc("GET "+apiV1+"/orders", h.Cart.ListOrders)
	api.HandleFunc("GET "+apiV1+"/orders/{id}", h.Cart.GetOrder)
	api.HandleFunc("DELETE "+apiV1+"/orders/{id}", h.Cart.AbandonOrder)
	api.HandleFunc("DELETE "+apiV1+"/orders/{id}/items/{package_id}", h.Cart.RemoveItem)

	api.HandleFunc("GET "+apiV1+"/suppliers", h.Suppliers.ListSuppliers)
	api.HandleFunc("POST "+apiV1+"/suppliers", h.Suppliers.CreateSupplier)
	api.HandleFunc("GET "+apiV1+"/loads", h.Suppliers.ListLoads)
	api.HandleFunc("POST "+apiV1+"/loads", h.Suppliers.CreateLoad)
	api.HandleFunc("POST "+apiV1+"/loads/import", h.Suppliers.ImportLoad)

	api.HandleFunc("GET "+apiV1+"/export/orders", h.Export.ExportOrders)
	api.HandleFunc("POST "+apiV1+"/reports/sales", h.Export.RequestSalesReport)

	mux := http.NewServeMux()
	mux.Handle(apiV1+"/", middleware.Authenticate(auth)(api))
	mux.HandleFunc("POST "+apiV1+"/auth/login", h.Auth.Login)
	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
	}

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID(cfg.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.AllowedOrigins),
	}
	if cfg.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws,
		middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitDuration),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.Compression,
	)

	return middleware.Chain(mux, mws...)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig wires services and middleware into the API router.
type RouterConfig struct {
	Catalog     ProductReader
	Orders      OrderManager
	Logger      *slog.Logger
	Metrics     *Metrics
	CORSOrigins []string
}

// NewRouter assembles the public API surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", MetricsHandler())

	r.Get("/products", HandleListProducts(cfg.Catalog))
	r.Get("/products/{id}", HandleGetProduct(cfg.Catalog))

	r.Route("/orders", func(r chi.Router) {
		r.Use(RequireOwner)
		r.Post("/", HandleCreateOrder(cfg.Orders))
		r.Get("/", HandleListOrders(cfg.Orders))
		r.Get("/{id}", HandleGetOrder(cfg.Orders))
		r.Put("/{id}/status", HandleUpdateOrderStatus(cfg.Orders))
		r.Delete("/{id}", HandleDeleteOrder(cfg.Orders))
	})

	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}

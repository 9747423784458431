package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func limitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter wires every storefront endpoint. Handlers may be nil when their
// backing service is not configured (content/webhooks in a catalog-only
// deployment); their routes are simply not mounted.
func NewRouter(
	cfg RouterConfig,
	cartHandler *CartHandler,
	checkoutHandler *CheckoutHandler,
	catalogHandler *CatalogHandler,
	contentHandler *ContentHandler,
	webhookHandler *OrderWebhookHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxBodyBytes > 0 {
		r.Use(limitBody(cfg.MaxBodyBytes))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items", cartHandler.UpdateQuantity)
			r.Delete("/items", cartHandler.RemoveItem)
		})

		r.Get("/checkout/url", checkoutHandler.GetCheckoutURL)

		r.Get("/products/{handle}", catalogHandler.GetProduct)
		r.Get("/collections/{handle}", catalogHandler.GetCollection)

		if contentHandler != nil {
			r.Get("/blog", contentHandler.ListPosts)
			r.Get("/blog/{slug}", contentHandler.GetPost)
			r.Post("/newsletter/subscribe", contentHandler.Subscribe)
			r.Post("/newsletter/unsubscribe", contentHandler.Unsubscribe)
		}
	})

	if webhookHandler != nil {
		r.Post("/webhooks/orders", webhookHandler.ReceiveOrder)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

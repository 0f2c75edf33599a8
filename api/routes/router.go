package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrine-commerce/vitrine-backend/api/controllers"
	"github.com/vitrine-commerce/vitrine-backend/api/middleware"
	"github.com/vitrine-commerce/vitrine-backend/internal/orders"
	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/internal/zones"
	"github.com/vitrine-commerce/vitrine-backend/pkg/config"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
)

// Pinger is the health-check surface of an infrastructure dependency.
type Pinger interface {
	Ping(context.Context) error
}

// NewRouter assembles the full HTTP surface. The admin subtree carries no
// authentication of its own; it is expected to sit behind an upstream
// gateway.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP Pinger,
	redisP Pinger,
	quoteService shipping.Service,
	checkoutService *orders.Service,
	adminService *zones.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/shipping/quote", controllers.ShippingQuote(quoteService, logg))
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/zones", func(r chi.Router) {
			r.Get("/", controllers.AdminListZones(adminService, logg))
			r.Post("/", controllers.AdminCreateZone(adminService, logg))
			r.Put("/{zoneId}", controllers.AdminUpdateZone(adminService, logg))
			r.Delete("/{zoneId}", controllers.AdminDeactivateZone(adminService, logg))
		})
		r.Route("/cep-ranges", func(r chi.Router) {
			r.Get("/", controllers.AdminListRanges(adminService, logg))
			r.Post("/", controllers.AdminCreateRange(adminService, logg))
			r.Put("/{rangeId}", controllers.AdminUpdateRange(adminService, logg))
			r.Delete("/{rangeId}", controllers.AdminDeactivateRange(adminService, logg))
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/scanpos/api/controllers"
	"github.com/angelmondragon/scanpos/api/middleware"
	"github.com/angelmondragon/scanpos/pkg/config"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

// RouterParams carries everything the HTTP surface depends on. DB and Redis
// are optional; nil values drop out of the readiness check.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Session  controllers.Session
	Catalog  controllers.Catalog
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(p.Config.App.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["database"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config.App.Env))
		r.Get("/ready", controllers.HealthReady(p.Config.App.Env, p.Logger, deps))
	})

	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/bill", func(r chi.Router) {
			r.Get("/", controllers.GetBill(p.Session))
			r.Delete("/lines/{code}", controllers.RemoveBillLine(p.Session, p.Logger))
			r.Delete("/discount", controllers.RemoveBillDiscount(p.Session))
		})
		r.Post("/scans", controllers.SubmitScan(p.Session, p.Logger))
		if p.Catalog != nil {
			r.Get("/catalog", controllers.ListProducts(p.Catalog))
			r.Get("/catalog/{code}", controllers.GetProduct(p.Catalog, p.Logger))
		}
	})

	return r
}

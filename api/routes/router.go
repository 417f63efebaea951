package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidmorenoc/desayunos-backend/api/controllers"
	"github.com/davidmorenoc/desayunos-backend/api/middleware"
	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/reconcile"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store sharedstore.Store,
	groupService *groups.Service,
	syncManager *reconcile.Manager,
	liveRegistry *reconcile.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", controllers.GroupCreate(groupService, logg))
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", controllers.GroupSnapshot(groupService, logg))
				r.Delete("/", controllers.GroupDelete(groupService, logg))
				r.Post("/join", controllers.GroupJoin(groupService, logg))
				r.Get("/pricing", controllers.GroupPricing(groupService, logg))
				r.Post("/paid", controllers.GroupMarkPaid(groupService, logg))
				r.Get("/live", controllers.GroupLive(syncManager, liveRegistry, groupService, logg))
				r.Put("/people/{person}/items", controllers.GroupSetItems(groupService, liveRegistry, logg))
			})
		})
		r.Post("/pricing/order", controllers.PriceOrder(groupService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Get("/groups", controllers.AdminGroupList(groupService, logg))
	})

	return r
}

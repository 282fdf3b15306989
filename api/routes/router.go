package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casaflow/casaflow-backend/api/controllers"
	"github.com/casaflow/casaflow-backend/api/middleware"
	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/internal/houses"
	"github.com/casaflow/casaflow-backend/internal/invoices"
	"github.com/casaflow/casaflow-backend/internal/people"
	"github.com/casaflow/casaflow-backend/internal/reporting"
	"github.com/casaflow/casaflow-backend/internal/wellevents"
	"github.com/casaflow/casaflow-backend/pkg/config"
	"github.com/casaflow/casaflow-backend/pkg/db"
	"github.com/casaflow/casaflow-backend/pkg/logger"
	"github.com/casaflow/casaflow-backend/pkg/redis"
)

// Services groups the domain services the router exposes.
type Services struct {
	Houses     *houses.Service
	People     *people.Service
	Invoices   *invoices.Service
	Reporting  *reporting.Service
	WellEvents *wellevents.Service
	Audit      audit.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/houses", func(r chi.Router) {
			r.Post("/", controllers.CreateHouse(svcs.Houses, logg))
			r.Get("/", controllers.ListHouses(svcs.Houses, logg))
			r.Get("/pending", controllers.ListPendingHouses(svcs.Houses, logg))

			r.Route("/{houseID}", func(r chi.Router) {
				r.Get("/", controllers.GetHouse(svcs.Houses, logg))
				r.Get("/details", controllers.GetHouseDetails(svcs.Houses, logg))
				r.Patch("/", controllers.UpdateHouse(svcs.Houses, logg))
				r.Delete("/", controllers.DeleteHouse(svcs.Houses, logg))
				r.Post("/responsible", controllers.AssignResponsible(svcs.Houses, logg))
				r.Get("/responsible", controllers.GetCurrentResponsible(svcs.Houses, logg))
				r.Get("/history", controllers.GetResponsibilityHistory(svcs.Houses, logg))
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.Post("/", controllers.CreatePerson(svcs.People, logg))
			r.Get("/", controllers.ListPeople(svcs.People, logg))
			r.Get("/by-phone", controllers.FindPersonByPhone(svcs.People, logg))
			r.Get("/suggestions", controllers.SuggestPeople(svcs.People, logg))
			r.Get("/{personID}", controllers.GetPerson(svcs.People, logg))
			r.Patch("/{personID}", controllers.UpdatePerson(svcs.People, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/generate", controllers.GenerateInvoices(svcs.Invoices, logg))
			r.Get("/{invoiceID}", controllers.GetInvoice(svcs.Invoices, logg))
			r.Post("/{invoiceID}/pay", controllers.PayInvoice(svcs.Invoices, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", controllers.DashboardReport(svcs.Reporting, logg))
			r.Get("/late", controllers.LateHousesReport(svcs.Reporting, logg))
		})

		r.Get("/audit-log", controllers.ListAuditLog(svcs.Audit, logg))

		r.Route("/well-events", func(r chi.Router) {
			r.Post("/", controllers.CreateWellEvent(svcs.WellEvents, logg))
			r.Get("/", controllers.ListWellEvents(svcs.WellEvents, logg))
		})
	})

	return r
}

package controllers

import (
	"net/http"
	"time"

	"github.com/casaflow/casaflow-backend/api/responses"
	"github.com/casaflow/casaflow-backend/api/validators"
	"github.com/casaflow/casaflow-backend/internal/reporting"
	"github.com/casaflow/casaflow-backend/pkg/logger"
)

// reportPeriod reads year/month query params, defaulting to the current UTC month.
func reportPeriod(r *http.Request) (int, int, error) {
	now := time.Now().UTC()
	year, err := validators.ParseQueryInt(r, "year", now.Year(), 1, 9999)
	if err != nil {
		return 0, 0, err
	}
	month, err := validators.ParseQueryInt(r, "month", int(now.Month()), 1, 12)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func DashboardReport(svc *reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		year, month, err := reportPeriod(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dashboard, err := svc.Dashboard(ctx, year, month)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func LateHousesReport(svc *reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		year, month, err := reportPeriod(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		late, err := svc.ListLate(ctx, year, month)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if late == nil {
			late = []reporting.LateHouse{}
		}
		responses.WriteSuccess(w, late)
	}
}

package controllers

import (
	"net/http"

	"github.com/casaflow/casaflow-backend/api/responses"
	"github.com/casaflow/casaflow-backend/api/validators"
	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/pkg/logger"
)

func ListAuditLog(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", audit.DefaultListLimit, 1, audit.MaxListLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		entries, err := svc.List(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

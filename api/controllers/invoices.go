package controllers

import (
	"net/http"
	"time"

	"github.com/casaflow/casaflow-backend/api/responses"
	"github.com/casaflow/casaflow-backend/api/validators"
	"github.com/casaflow/casaflow-backend/internal/invoices"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/logger"
)

type generateInvoicesRequest struct {
	Year           int  `json:"year" validate:"required"`
	Month          int  `json:"month" validate:"required"`
	IncludePending bool `json:"include_pending"`
}

type payInvoiceRequest struct {
	Method string     `json:"method" validate:"required"`
	PaidAt *time.Time `json:"paid_at"`
	Notes  *string    `json:"notes"`
}

func GenerateInvoices(svc *invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req generateInvoicesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Generate(ctx, req.Year, req.Month, req.IncludePending)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func PayInvoice(svc *invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseIDParam(r, "invoiceID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req payInvoiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(req.Method)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		result, err := svc.Pay(ctx, id, method, req.PaidAt, req.Notes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetInvoice(svc *invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseIDParam(r, "invoiceID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invoice, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

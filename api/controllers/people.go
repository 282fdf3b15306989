package controllers

import (
	"net/http"

	"github.com/casaflow/casaflow-backend/api/responses"
	"github.com/casaflow/casaflow-backend/api/validators"
	"github.com/casaflow/casaflow-backend/internal/people"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/logger"
)

func CreatePerson(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input people.CreatePersonInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status := http.StatusCreated
		if result.Reused {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

func GetPerson(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseIDParam(r, "personID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		person, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, person)
	}
}

func UpdatePerson(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseIDParam(r, "personID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input people.UpdatePersonInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		person, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, person)
	}
}

func ListPeople(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		items, err := svc.List(ctx, r.URL.Query().Get("search"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func FindPersonByPhone(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		phone := r.URL.Query().Get("phone")
		if phone == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "phone query parameter is required"))
			return
		}
		person, err := svc.FindByPhone(ctx, phone)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, person)
	}
}

func SuggestPeople(svc *people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		suggestions, err := svc.Suggest(ctx, r.URL.Query().Get("name"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if suggestions == nil {
			suggestions = []people.Suggestion{}
		}
		responses.WriteSuccess(w, suggestions)
	}
}

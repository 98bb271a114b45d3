package controllers

import (
	"net/http"

	"github.com/angelmondragon/servicebay-backend/api/responses"
	"github.com/angelmondragon/servicebay-backend/api/validators"
	"github.com/angelmondragon/servicebay-backend/internal/users"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
)

type createdAdvisorResponse struct {
	User *users.UserDTO `json:"user"`
	// TemporaryPassword is only set when the admin did not choose one.
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

func advisorsUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advisor service unavailable"))
}

func AdvisorList(svc users.AdvisorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			advisorsUnavailable(w, r, logg)
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users.FromModels(list))
	}
}

func AdvisorCreate(svc users.AdvisorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			advisorsUnavailable(w, r, logg)
			return
		}
		var body users.CreateAdvisorInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, createdAdvisorResponse{
			User:              users.FromModel(created.User),
			TemporaryPassword: created.TempPassword,
		})
	}
}

func AdvisorUpdate(svc users.AdvisorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			advisorsUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body users.UpdateAdvisorInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}

func AdvisorDelete(svc users.AdvisorService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			advisorsUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

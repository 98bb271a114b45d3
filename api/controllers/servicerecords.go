package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/servicebay-backend/api/middleware"
	"github.com/angelmondragon/servicebay-backend/api/responses"
	"github.com/angelmondragon/servicebay-backend/api/validators"
	"github.com/angelmondragon/servicebay-backend/internal/servicerecords"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/angelmondragon/servicebay-backend/pkg/pagination"
)

func recordsUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "service record service unavailable"))
}

func actorFromRequest(r *http.Request) servicerecords.Actor {
	return servicerecords.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

// ScheduleService opens a DUE record for ?vehicleId and ?serviceAdvisorId.
func ScheduleService(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		vehicleID, err := validators.ParseQueryID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		advisorID, err := validators.ParseQueryID(r, "serviceAdvisorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Schedule(r.Context(), vehicleID, advisorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.RecordFromModel(*record))
	}
}

// ServiceRecordList serves a status-filtered page of records. A nil status lists all.
func ServiceRecordList(svc servicerecords.Service, status *enums.ServiceStatus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		params, err := listParams(r, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.ListFromResult(result))
	}
}

// ScheduledServices lists the calling advisor's DUE records.
func ScheduledServices(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	due := enums.ServiceStatusDue
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		params, err := listParams(r, &due)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.AdvisorID = middleware.UserIDFromContext(r.Context())
		if params.AdvisorID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "advisor identity missing"))
			return
		}
		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.ListFromResult(result))
	}
}

func ServiceRecordDetail(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.DetailFromModel(detail))
	}
}

func AddServiceItem(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		var body servicerecords.AddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AddServiceItem(r.Context(), body.Input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.ItemCreatedFromModel(item))
	}
}

// CreateInvoice computes the invoice for ?serviceRecordId. Nothing is stored.
func CreateInvoice(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseQueryID(r, "serviceRecordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inv, err := svc.BuildInvoice(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.InvoiceFromModel(inv))
	}
}

type paymentAck struct {
	ServiceRecordID int64  `json:"serviceRecordId"`
	Message         string `json:"message"`
}

// ProcessPayment acknowledges payment for an existing record. No charge is taken and nothing is stored.
func ProcessPayment(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParseQueryID(r, "serviceRecordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.GetDetail(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentAck{ServiceRecordID: id, Message: "payment acknowledged"})
	}
}

// DispatchServiceRecord is the admin completion path, addressed by ?serviceRecordId.
func DispatchServiceRecord(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request) (int64, error) {
		return validators.ParseQueryID(r, "serviceRecordId")
	}, servicerecords.Service.Complete)
}

// CompleteServiceRecord is the advisor completion path, addressed by path id.
func CompleteServiceRecord(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, pathID, servicerecords.Service.Complete)
}

func StartServiceRecord(svc servicerecords.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, pathID, servicerecords.Service.Start)
}

type transitionFunc func(servicerecords.Service, context.Context, servicerecords.Actor, int64) (*models.ServiceRecord, error)

func transitionHandler(svc servicerecords.Service, logg *logger.Logger, idOf func(*http.Request) (int64, error), apply transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			recordsUnavailable(w, r, logg)
			return
		}
		id, err := idOf(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := apply(svc, r.Context(), actorFromRequest(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicerecords.RecordFromModel(*record))
	}
}

func pathID(r *http.Request) (int64, error) {
	return validators.ParsePathID(r, "id")
}

func listParams(r *http.Request, status *enums.ServiceStatus) (servicerecords.ListParams, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return servicerecords.ListParams{}, err
	}
	return servicerecords.ListParams{
		Status: status,
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

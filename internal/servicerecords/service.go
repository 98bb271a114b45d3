package servicerecords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/angelmondragon/servicebay-backend/pkg/metrics"
	"github.com/angelmondragon/servicebay-backend/pkg/pagination"
)

const (
	entityServiceRecord = "service record"
	entityWorkItem      = "work item"
	entityVehicle       = "vehicle"
	entityAdvisor       = "service advisor"
)

type recordsRepository interface {
	Create(ctx context.Context, record *models.ServiceRecord) error
	FindByID(ctx context.Context, id int64) (*models.ServiceRecord, error)
	FindDetail(ctx context.Context, id int64) (*models.ServiceRecord, error)
	ListItems(ctx context.Context, recordID int64) ([]models.ServiceItem, error)
	CreateItem(ctx context.Context, item *models.ServiceItem) error
	Transition(ctx context.Context, id int64, from []enums.ServiceStatus, to enums.ServiceStatus, at time.Time) (int64, error)
	List(ctx context.Context, q listQuery) ([]models.ServiceRecord, error)
}

type workItemLookup interface {
	FindByID(ctx context.Context, id int64) (*models.WorkItem, error)
}

type advisorLookup interface {
	FindByIDAndType(ctx context.Context, id int64, userType enums.UserType) (*models.User, error)
}

// AddItemInput is one billing line to attach to a service record.
type AddItemInput struct {
	ServiceRecordID int64 `json:"serviceRecordId"`
	WorkItemID      int64 `json:"workItemId"`
	Quantity        int   `json:"quantity"`
}

// Detail is a service record with its vehicle, advisor and priced items.
type Detail struct {
	Record *models.ServiceRecord
	Lines  []InvoiceLine
}

// ListParams filters the record listing. Zero values mean no filter.
type ListParams struct {
	Status    *enums.ServiceStatus
	AdvisorID int64
	Limit     int
	Cursor    string
}

// ListResult is one page of records plus the cursor for the next page.
type ListResult struct {
	Records    []models.ServiceRecord
	NextCursor string
}

// Service drives the service record lifecycle: scheduling, work tracking,
// completion and invoicing.
type Service interface {
	Schedule(ctx context.Context, vehicleID, advisorID int64) (*models.ServiceRecord, error)
	AddServiceItem(ctx context.Context, input AddItemInput) (*models.ServiceItem, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	Start(ctx context.Context, actor Actor, id int64) (*models.ServiceRecord, error)
	Complete(ctx context.Context, actor Actor, id int64) (*models.ServiceRecord, error)
	BuildInvoice(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ServiceParams bundles the dependencies of the service record service.
type ServiceParams struct {
	Records   recordsRepository
	WorkItems workItemLookup
	Advisors  advisorLookup
	Workflow  config.WorkflowConfig
	Metrics   *metrics.WorkflowMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	records   recordsRepository
	workItems workItemLookup
	advisors  advisorLookup
	workflow  config.WorkflowConfig
	metrics   *metrics.WorkflowMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the service record service.
func NewService(params ServiceParams) (Service, error) {
	if params.Records == nil {
		return nil, fmt.Errorf("service record repository required")
	}
	if params.WorkItems == nil {
		return nil, fmt.Errorf("work item lookup required")
	}
	if params.Advisors == nil {
		return nil, fmt.Errorf("advisor lookup required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		records:   params.Records,
		workItems: params.WorkItems,
		advisors:  params.Advisors,
		workflow:  params.Workflow,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       now,
	}, nil
}

// Schedule opens a DUE record for the vehicle and advisor, scheduled now.
func (s *service) Schedule(ctx context.Context, vehicleID, advisorID int64) (*models.ServiceRecord, error) {
	details := map[string]string{}
	if vehicleID <= 0 {
		details["vehicleId"] = "must be positive"
	}
	if advisorID <= 0 {
		details["serviceAdvisorId"] = "must be positive"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid schedule request").WithDetails(details)
	}

	// Only SERVICE_ADVISOR users may own records; any other user reads as a missing advisor.
	if _, err := s.advisors.FindByIDAndType(ctx, advisorID, enums.UserTypeServiceAdvisor); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityAdvisor, advisorID)
		}
		return nil, pkgerrors.Storage(err, "load service advisor")
	}

	record := &models.ServiceRecord{
		VehicleID:        vehicleID,
		ServiceAdvisorID: advisorID,
		ScheduledDate:    s.now().UTC(),
		Status:           enums.ServiceStatusDue,
	}
	if err := s.records.Create(ctx, record); err != nil {
		if db.IsForeignKeyViolation(err) {
			if strings.Contains(db.ViolatedConstraint(err), "advisor") {
				return nil, pkgerrors.NotFound(entityAdvisor, advisorID)
			}
			return nil, pkgerrors.NotFound(entityVehicle, vehicleID)
		}
		return nil, pkgerrors.Storage(err, "create service record")
	}

	s.metrics.IncScheduled()
	s.logEvent(ctx, record.ID, "service_record.scheduled")
	return record, nil
}

// AddServiceItem validates every reference before writing a single item row.
func (s *service) AddServiceItem(ctx context.Context, input AddItemInput) (*models.ServiceItem, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
			WithDetails(map[string]string{"quantity": "must be > 0"})
	}
	if input.WorkItemID <= 0 || input.ServiceRecordID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifiers must be positive").
			WithDetails(map[string]any{"workItemId": input.WorkItemID, "serviceRecordId": input.ServiceRecordID})
	}

	if _, err := s.workItems.FindByID(ctx, input.WorkItemID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityWorkItem, input.WorkItemID)
		}
		return nil, pkgerrors.Storage(err, "load work item")
	}

	record, err := s.loadRecord(ctx, input.ServiceRecordID)
	if err != nil {
		return nil, err
	}
	if !record.Status.IsOpen() && !s.workflow.AllowItemsAfterCompletion {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "service record is completed").
			WithDetails(map[string]any{"serviceRecordId": record.ID, "status": record.Status})
	}

	item := &models.ServiceItem{
		ServiceRecordID: record.ID,
		WorkItemID:      input.WorkItemID,
		Quantity:        input.Quantity,
	}
	if err := s.records.CreateItem(ctx, item); err != nil {
		if db.IsForeignKeyViolation(err) {
			if strings.Contains(db.ViolatedConstraint(err), "work_item") {
				return nil, pkgerrors.NotFound(entityWorkItem, input.WorkItemID)
			}
			return nil, pkgerrors.NotFound(entityServiceRecord, input.ServiceRecordID)
		}
		return nil, pkgerrors.Storage(err, "create service item")
	}

	s.metrics.IncItemsAdded()
	return item, nil
}

func (s *service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	record, items, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := make([]InvoiceLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, priceLine(item))
	}
	return &Detail{Record: record, Lines: lines}, nil
}

// Start moves a DUE record under service. Repeating it is a no-op.
func (s *service) Start(ctx context.Context, actor Actor, id int64) (*models.ServiceRecord, error) {
	return s.transition(ctx, actor, id, enums.ServiceStatusUnderService)
}

// Complete closes the record from any open status. Admin dispatch and advisor
// completion share this path; completing a completed record is a no-op.
func (s *service) Complete(ctx context.Context, actor Actor, id int64) (*models.ServiceRecord, error) {
	return s.transition(ctx, actor, id, enums.ServiceStatusCompleted)
}

func (s *service) transition(ctx context.Context, actor Actor, id int64, to enums.ServiceStatus) (*models.ServiceRecord, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !actor.canTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot perform this transition").
			WithDetails(map[string]any{"role": actor.Role, "status": to})
	}
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service record id must be positive")
	}

	record, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == to {
		return record, nil
	}
	if !record.Status.CanAdvanceTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "service record cannot move backwards").
			WithDetails(map[string]any{"serviceRecordId": id, "from": record.Status, "to": to})
	}

	from := openStatusesBefore(to)
	if _, err := s.records.Transition(ctx, id, from, to, s.now().UTC()); err != nil {
		return nil, pkgerrors.Storage(err, "update service record status")
	}

	// A concurrent transition may have won; either way the stored row is authoritative.
	updated, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Status != to && !updated.Status.CanAdvanceTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "service record changed concurrently").
			WithDetails(map[string]any{"serviceRecordId": id, "status": updated.Status})
	}

	s.metrics.IncTransition(to.String())
	if s.logg != nil {
		ctx = s.logg.WithUserID(ctx, actor.UserID)
		ctx = s.logg.WithActorRole(ctx, actor.Role.String())
	}
	s.logEvent(ctx, id, transitionEvent(to))
	return updated, nil
}

// BuildInvoice prices the record's current items. Nothing is persisted.
func (s *service) BuildInvoice(ctx context.Context, id int64) (*Invoice, error) {
	record, items, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	inv := buildInvoice(record, record.ServiceAdvisor, items)
	s.metrics.IncInvoices()
	return &inv, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
			WithDetails(map[string]string{"status": string(*params.Status)})
	}
	if params.AdvisorID < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advisor id must be positive")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.records.List(ctx, listQuery{
		status:    params.Status,
		advisorID: params.AdvisorID,
		limit:     params.Limit,
		cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Storage(err, "list service records")
	}

	page, next := pagination.Page(rows, params.Limit, func(r models.ServiceRecord) pagination.Cursor {
		return pagination.Cursor{At: r.ScheduledDate, ID: r.ID}
	})
	return &ListResult{Records: page, NextCursor: next}, nil
}

func (s *service) loadDetail(ctx context.Context, id int64) (*models.ServiceRecord, []models.ServiceItem, error) {
	if id <= 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "service record id must be positive")
	}
	record, err := s.records.FindDetail(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.NotFound(entityServiceRecord, id)
		}
		return nil, nil, pkgerrors.Storage(err, "load service record")
	}
	items, err := s.records.ListItems(ctx, id)
	if err != nil {
		return nil, nil, pkgerrors.Storage(err, "list service items")
	}
	return record, items, nil
}

func (s *service) loadRecord(ctx context.Context, id int64) (*models.ServiceRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityServiceRecord, id)
		}
		return nil, pkgerrors.Storage(err, "load service record")
	}
	return record, nil
}

func (s *service) logEvent(ctx context.Context, recordID int64, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithServiceRecordID(ctx, recordID), msg)
}

func openStatusesBefore(to enums.ServiceStatus) []enums.ServiceStatus {
	out := []enums.ServiceStatus{}
	for _, st := range []enums.ServiceStatus{enums.ServiceStatusDue, enums.ServiceStatusUnderService} {
		if st != to && st.CanAdvanceTo(to) {
			out = append(out, st)
		}
	}
	return out
}

func transitionEvent(to enums.ServiceStatus) string {
	switch to {
	case enums.ServiceStatusUnderService:
		return "service_record.started"
	case enums.ServiceStatusCompleted:
		return "service_record.completed"
	}
	return "service_record.transitioned"
}

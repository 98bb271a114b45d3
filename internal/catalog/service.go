package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const entityWorkItem = "work item"

type workItemsRepository interface {
	Create(ctx context.Context, item *models.WorkItem) error
	List(ctx context.Context) ([]models.WorkItem, error)
	FindByID(ctx context.Context, id int64) (*models.WorkItem, error)
	Update(ctx context.Context, item *models.WorkItem) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Service manages the billable work item catalog.
type Service interface {
	Create(ctx context.Context, input WorkItemInput) (*models.WorkItem, error)
	List(ctx context.Context) ([]models.WorkItem, error)
	Get(ctx context.Context, id int64) (*models.WorkItem, error)
	Update(ctx context.Context, id int64, input WorkItemInput) (*models.WorkItem, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo workItemsRepository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo workItemsRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("work item repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input WorkItemInput) (*models.WorkItem, error) {
	name, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	item := &models.WorkItem{Name: name, Cost: input.Cost}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Storage(err, "create work item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context) ([]models.WorkItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Storage(err, "list work items")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.WorkItem, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work item id must be positive")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityWorkItem, id)
		}
		return nil, pkgerrors.Storage(err, "load work item")
	}
	return item, nil
}

// Update is a full replace of name and cost. A body id, when present, must match the path id.
func (s *service) Update(ctx context.Context, id int64, input WorkItemInput) (*models.WorkItem, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work item id must be positive")
	}
	if input.ID != 0 && input.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work item id mismatch").
			WithDetails(map[string]any{"pathId": id, "bodyId": input.ID})
	}
	name, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	item := &models.WorkItem{ID: id, Name: name, Cost: input.Cost}
	rows, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Storage(err, "update work item")
	}
	if rows == 0 {
		return nil, pkgerrors.NotFound(entityWorkItem, id)
	}
	return s.Get(ctx, id)
}

// Delete retires the work item. Service items that reference it keep resolving it.
func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "work item id must be positive")
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Storage(err, "delete work item")
	}
	if rows == 0 {
		return pkgerrors.NotFound(entityWorkItem, id)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "work_item_id", id), "work_item.retired")
	}
	return nil
}

// maxCost is the first value a numeric(12,2) column cannot hold.
var maxCost = decimal.New(1, 10)

func validateInput(input WorkItemInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "work item name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	if input.Cost.LessThan(decimal.Zero) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "work item cost must not be negative").
			WithDetails(map[string]string{"cost": "must be >= 0"})
	}
	if !input.Cost.Round(2).Equal(input.Cost) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "work item cost has too many decimal places").
			WithDetails(map[string]string{"cost": "at most 2 decimal places"})
	}
	if input.Cost.GreaterThanOrEqual(maxCost) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "work item cost is too large").
			WithDetails(map[string]string{"cost": "must be < 10000000000"})
	}
	return name, nil
}

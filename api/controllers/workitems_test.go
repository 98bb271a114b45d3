package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/servicebay-backend/internal/catalog"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
)

type stubCatalogService struct {
	items   map[int64]models.WorkItem
	created catalog.WorkItemInput
	deleted int64
}

func newStubCatalog() *stubCatalogService {
	return &stubCatalogService{items: map[int64]models.WorkItem{
		1: {ID: 1, Name: "Oil change", Cost: decimal.RequireFromString("49.5")},
	}}
}

func (s *stubCatalogService) Create(ctx context.Context, input catalog.WorkItemInput) (*models.WorkItem, error) {
	s.created = input
	item := models.WorkItem{ID: 2, Name: input.Name, Cost: input.Cost}
	s.items[item.ID] = item
	return &item, nil
}

func (s *stubCatalogService) List(ctx context.Context) ([]models.WorkItem, error) {
	out := make([]models.WorkItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubCatalogService) Get(ctx context.Context, id int64) (*models.WorkItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NotFound("work item", id)
	}
	return &item, nil
}

func (s *stubCatalogService) Update(ctx context.Context, id int64, input catalog.WorkItemInput) (*models.WorkItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NotFound("work item", id)
	}
	item.Name, item.Cost = input.Name, input.Cost
	s.items[id] = item
	return &item, nil
}

func (s *stubCatalogService) Delete(ctx context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return pkgerrors.NotFound("work item", id)
	}
	s.deleted = id
	delete(s.items, id)
	return nil
}

func workItemRouter(svc catalog.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/items", WorkItemList(svc, nil))
	r.Get("/items/{id}", WorkItemGet(svc, nil))
	r.Post("/items", WorkItemCreate(svc, nil))
	r.Put("/items/{id}", WorkItemUpdate(svc, nil))
	r.Delete("/items/{id}", WorkItemDelete(svc, nil))
	return r
}

func TestWorkItemGetRendersCost(t *testing.T) {
	router := workItemRouter(newStubCatalog())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body catalog.WorkItemDTO
	decodeData(t, resp, &body)
	if body.Cost != "49.50" || body.Name != "Oil change" {
		t.Fatalf("unexpected item %+v", body)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestWorkItemCreate(t *testing.T) {
	svc := newStubCatalog()
	router := workItemRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Brake pads","cost":"100"}`)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !svc.created.Cost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected cost %s", svc.created.Cost)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"cost":"100"}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"x","colour":"red"}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestWorkItemUpdateAndDelete(t *testing.T) {
	svc := newStubCatalog()
	router := workItemRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/items/1", strings.NewReader(`{"name":"Synthetic oil change","cost":"79.99"}`)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body catalog.WorkItemDTO
	decodeData(t, resp, &body)
	if body.Cost != "79.99" {
		t.Fatalf("unexpected cost %s", body.Cost)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/items/1", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.deleted != 1 {
		t.Fatalf("expected delete of 1 got %d", svc.deleted)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/items/1", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete got %d", resp.Code)
	}
}

func TestWorkItemHandlersWithoutService(t *testing.T) {
	resp := httptest.NewRecorder()
	WorkItemList(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/items", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/servicebay-backend/internal/auth"
	"github.com/angelmondragon/servicebay-backend/internal/catalog"
	"github.com/angelmondragon/servicebay-backend/internal/servicerecords"
	pkgAuth "github.com/angelmondragon/servicebay-backend/pkg/auth"
	"github.com/angelmondragon/servicebay-backend/pkg/auth/session"
	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/angelmondragon/servicebay-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

func (stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubCatalogService struct{}

func (stubCatalogService) Create(ctx context.Context, input catalog.WorkItemInput) (*models.WorkItem, error) {
	return &models.WorkItem{ID: 1, Name: input.Name, Cost: input.Cost}, nil
}

func (stubCatalogService) List(ctx context.Context) ([]models.WorkItem, error) {
	return []models.WorkItem{{ID: 1, Name: "Oil change", Cost: decimal.NewFromInt(50)}}, nil
}

func (stubCatalogService) Get(ctx context.Context, id int64) (*models.WorkItem, error) {
	return &models.WorkItem{ID: id, Name: "Oil change", Cost: decimal.NewFromInt(50)}, nil
}

func (stubCatalogService) Update(ctx context.Context, id int64, input catalog.WorkItemInput) (*models.WorkItem, error) {
	return &models.WorkItem{ID: id, Name: input.Name, Cost: input.Cost}, nil
}

func (stubCatalogService) Delete(ctx context.Context, id int64) error {
	return nil
}

type stubRecordsService struct {
	lastActor servicerecords.Actor
}

func (s *stubRecordsService) Schedule(ctx context.Context, vehicleID, advisorID int64) (*models.ServiceRecord, error) {
	return &models.ServiceRecord{ID: 1, VehicleID: vehicleID, ServiceAdvisorID: advisorID, Status: enums.ServiceStatusDue}, nil
}

func (s *stubRecordsService) AddServiceItem(ctx context.Context, input servicerecords.AddItemInput) (*models.ServiceItem, error) {
	return &models.ServiceItem{ID: 1, ServiceRecordID: input.ServiceRecordID, WorkItemID: input.WorkItemID, Quantity: input.Quantity}, nil
}

func (s *stubRecordsService) GetDetail(ctx context.Context, id int64) (*servicerecords.Detail, error) {
	return &servicerecords.Detail{Record: &models.ServiceRecord{ID: id, Status: enums.ServiceStatusDue}}, nil
}

func (s *stubRecordsService) Start(ctx context.Context, actor servicerecords.Actor, id int64) (*models.ServiceRecord, error) {
	s.lastActor = actor
	return &models.ServiceRecord{ID: id, Status: enums.ServiceStatusUnderService}, nil
}

func (s *stubRecordsService) Complete(ctx context.Context, actor servicerecords.Actor, id int64) (*models.ServiceRecord, error) {
	s.lastActor = actor
	return &models.ServiceRecord{ID: id, Status: enums.ServiceStatusCompleted}, nil
}

func (s *stubRecordsService) BuildInvoice(ctx context.Context, id int64) (*servicerecords.Invoice, error) {
	return &servicerecords.Invoice{ServiceRecordID: id, Status: enums.ServiceStatusCompleted, Total: decimal.NewFromInt(35)}, nil
}

func (s *stubRecordsService) List(ctx context.Context, params servicerecords.ListParams) (*servicerecords.ListResult, error) {
	return &servicerecords.ListResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, records *stubRecordsService) (http.Handler, *prometheus.Registry) {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(Params{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Sessions:    stubSessionManager{},
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Auth:        stubAuthService{},
		Catalog:     stubCatalogService{},
		Records:     records,
	}), reg
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router, _ := newTestRouter(testConfig(), &stubRecordsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/GetWorkItem", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(cfg, &stubRecordsService{})

	advisor := httptest.NewRequest(http.MethodGet, "/api/admin/GetWorkItem", nil)
	advisor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeServiceAdvisor, 2))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, advisor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for advisor got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/GetWorkItem", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeAdmin, 1))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestServiceAdvisorRoutesRequireAdvisorRole(t *testing.T) {
	cfg := testConfig()
	records := &stubRecordsService{}
	router, _ := newTestRouter(cfg, records)

	body := `{"serviceRecordId":1,"workItemId":1,"quantity":2}`
	admin := httptest.NewRequest(http.MethodPost, "/api/serviceadvisor/AddServiceItem", strings.NewReader(body))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeAdmin, 1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on advisor route got %d", resp.Code)
	}

	advisor := httptest.NewRequest(http.MethodPost, "/api/serviceadvisor/AddServiceItem", strings.NewReader(body))
	advisor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeServiceAdvisor, 2))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, advisor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for advisor got %d", resp.Code)
	}
}

func TestServiceRecordDetailOpenToAdminAndAdvisor(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(cfg, &stubRecordsService{})

	for _, role := range []enums.UserType{enums.UserTypeAdmin, enums.UserTypeServiceAdvisor} {
		req := httptest.NewRequest(http.MethodGet, "/api/serviceadvisor/ServiceRecord/4", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role, 3))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", role, resp.Code)
		}
	}
}

func TestCompleteCarriesCallerIdentity(t *testing.T) {
	cfg := testConfig()
	records := &stubRecordsService{}
	router, _ := newTestRouter(cfg, records)

	req := httptest.NewRequest(http.MethodPost, "/api/serviceadvisor/CompleteServiceRecord/9", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeServiceAdvisor, 7))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if records.lastActor.UserID != 7 || records.lastActor.Role != enums.UserTypeServiceAdvisor {
		t.Fatalf("unexpected actor %+v", records.lastActor)
	}
}

func TestAdminRegisterHiddenInProd(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = config.AppEnvProd
	router, _ := newTestRouter(cfg, &stubRecordsService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/register", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusCreated || resp.Code == http.StatusBadRequest {
		t.Fatalf("register route should not be served in prod, got %d", resp.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router, _ := newTestRouter(testConfig(), &stubRecordsService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/health/ready"`) {
		t.Fatalf("expected health request in metrics output")
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserType, userID int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		UserType: role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

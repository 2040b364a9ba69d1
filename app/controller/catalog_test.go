package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
	"github.com/vibast-solutions/ms-go-marketplace/app/service"
)

func newCatalogControllerForTest(serviceRepo *controllerServiceRepo, subscriptionRepo *controllerSubscriptionRepo) *CatalogController {
	return NewCatalogController(service.NewCatalogService(serviceRepo, subscriptionRepo))
}

func TestHealth(t *testing.T) {
	ctrl := newCatalogControllerForTest(&controllerServiceRepo{}, &controllerSubscriptionRepo{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := ctrl.Health(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublishServiceBadBody(t *testing.T) {
	ctrl := newCatalogControllerForTest(&controllerServiceRepo{}, &controllerSubscriptionRepo{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewBufferString("{bad"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.PublishService(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPublishServiceMissingPrices(t *testing.T) {
	ctrl := newCatalogControllerForTest(&controllerServiceRepo{}, &controllerSubscriptionRepo{})
	e := echo.New()
	body := `{"name":"Chain Analytics Pro","description":"On-chain metrics","category":"Data & Analytics","publisher_address":"pubAddr111"}`
	req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.PublishService(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPublishServiceUnknownCategory(t *testing.T) {
	ctrl := newCatalogControllerForTest(&controllerServiceRepo{}, &controllerSubscriptionRepo{})
	e := echo.New()
	body := `{"name":"Chain Analytics Pro","description":"On-chain metrics","category":"Gardening","publisher_address":"pubAddr111","monthly_price":"0.5"}`
	req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.PublishService(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPublishServiceSuccess(t *testing.T) {
	ctrl := newCatalogControllerForTest(
		&controllerServiceRepo{createFn: func(_ context.Context, item *entity.Service) error {
			item.ID = "svc-77"
			return nil
		}},
		&controllerSubscriptionRepo{},
	)
	e := echo.New()
	body := `{"name":"Chain Analytics Pro","description":"On-chain metrics","category":"Data & Analytics","publisher_address":"pubAddr111","monthly_price":"0.5","features":["Dashboards"]}`
	req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.PublishService(ctx)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Service struct {
			ID            string   `json:"id"`
			DefaultPlan   string   `json:"default_plan"`
			WebhookEvents []string `json:"webhook_events"`
		} `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Service.ID != "svc-77" {
		t.Errorf("expected created service payload, got %s", rec.Body.String())
	}
	if payload.Service.DefaultPlan != string(entity.PlanMonthly) {
		t.Errorf("expected monthly default plan, got %q", payload.Service.DefaultPlan)
	}
	if len(payload.Service.WebhookEvents) != 3 {
		t.Errorf("expected 3 webhook events, got %v", payload.Service.WebhookEvents)
	}
}

func TestGetServiceNotFound(t *testing.T) {
	ctrl := newCatalogControllerForTest(
		&controllerServiceRepo{findByIDFn: func(context.Context, string) (*entity.Service, error) { return nil, nil }},
		&controllerSubscriptionRepo{},
	)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/services/svc-9", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("svc-9")

	_ = ctrl.GetService(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListServices(t *testing.T) {
	ctrl := newCatalogControllerForTest(
		&controllerServiceRepo{listFn: func(context.Context) ([]*entity.Service, error) {
			return []*entity.Service{marketService()}, nil
		}},
		&controllerSubscriptionRepo{},
	)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.ListServices(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Services []struct {
			Name string `json:"name"`
		} `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(payload.Services) != 1 || payload.Services[0].Name != "Chain Analytics Pro" {
		t.Errorf("unexpected payload: %s", rec.Body.String())
	}
}

func TestListPublisherServicesRollup(t *testing.T) {
	svc := marketService()
	ctrl := newCatalogControllerForTest(
		&controllerServiceRepo{listByPublisherFn: func(context.Context, string) ([]*entity.Service, error) {
			return []*entity.Service{svc}, nil
		}},
		&controllerSubscriptionRepo{},
	)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/publishers/pubAddr111/services", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("address")
	ctx.SetParamValues("pubAddr111")

	_ = ctrl.ListPublisherServices(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Services []struct {
			Service struct {
				ID           string   `json:"id"`
				MonthlyPrice *float64 `json:"monthly_price"`
			} `json:"service"`
			Subscriptions []json.RawMessage `json:"subscriptions"`
		} `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(payload.Services) != 1 || payload.Services[0].Service.ID != "svc-1" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	want := decimal.RequireFromString("0.5").InexactFloat64()
	if payload.Services[0].Service.MonthlyPrice == nil || *payload.Services[0].Service.MonthlyPrice != want {
		t.Errorf("expected monthly price %v, got %v", want, payload.Services[0].Service.MonthlyPrice)
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/api/middleware"
	clientsvc "github.com/tradehub-app/tradehub-backend/internal/clients"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/logger"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubClientService struct {
	created *clientsvc.CreateClientInput
	getErr  error
}

func (s *stubClientService) Create(ctx context.Context, companyID uuid.UUID, input clientsvc.CreateClientInput) (*clientsvc.ClientDTO, error) {
	s.created = &input
	return &clientsvc.ClientDTO{ID: uuid.New(), Name: input.Name, Email: input.Email}, nil
}

func (s *stubClientService) Get(ctx context.Context, companyID, clientID uuid.UUID) (*clientsvc.ClientDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &clientsvc.ClientDTO{ID: clientID, Name: "Acme Plumbing"}, nil
}

func (s *stubClientService) Update(ctx context.Context, companyID, clientID uuid.UUID, input clientsvc.UpdateClientInput) (*clientsvc.ClientDTO, error) {
	name := "Acme Plumbing"
	if input.Name != nil {
		name = *input.Name
	}
	return &clientsvc.ClientDTO{ID: clientID, Name: name}, nil
}

func (s *stubClientService) Delete(ctx context.Context, companyID, clientID uuid.UUID) error {
	return nil
}

func (s *stubClientService) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*clientsvc.ClientListResult, error) {
	return &clientsvc.ClientListResult{Clients: []clientsvc.ClientDTO{{ID: uuid.New(), Name: "Acme Plumbing"}}}, nil
}

func tenantContext(companyID uuid.UUID) context.Context {
	return middleware.WithCompanyID(context.Background(), companyID.String())
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestClientCreate(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()

	t.Run("created", func(t *testing.T) {
		stub := &stubClientService{}
		body := `{"name":"Acme Plumbing","email":"billing@acme.test"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body))
		req = req.WithContext(tenantContext(companyID))
		rec := httptest.NewRecorder()

		ClientCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil || stub.created.Name != "Acme Plumbing" {
			t.Fatalf("service not called with payload: %+v", stub.created)
		}
	})

	t.Run("missing tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name":"Acme"}`))
		rec := httptest.NewRecorder()

		ClientCreate(&stubClientService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without company context, got %d", rec.Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"email":"a@b.test"}`))
		req = req.WithContext(tenantContext(companyID))
		rec := httptest.NewRecorder()

		ClientCreate(&stubClientService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing name, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name":"Acme","company_id":"sneaky"}`))
		req = req.WithContext(tenantContext(companyID))
		rec := httptest.NewRecorder()

		ClientCreate(&stubClientService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})
}

func TestClientGet(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()
	clientID := uuid.New()

	t.Run("found", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "clientId", clientID.String())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+clientID.String(), nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		ClientGet(&stubClientService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Data clientsvc.ClientDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.ID != clientID {
			t.Fatalf("expected client %s, got %s", clientID, body.Data.ID)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		ctx := withURLParam(tenantContext(companyID), "clientId", "not-a-uuid")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/not-a-uuid", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		ClientGet(&stubClientService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad uuid, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubClientService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "client not found")}
		ctx := withURLParam(tenantContext(companyID), "clientId", clientID.String())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+clientID.String(), nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		ClientGet(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestClientListPagination(t *testing.T) {
	logg := testLogger()
	companyID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?limit=500", nil)
	req = req.WithContext(tenantContext(companyID))
	rec := httptest.NewRecorder()

	ClientList(&stubClientService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit over the cap, got %d", rec.Code)
	}
}

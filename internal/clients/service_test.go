package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

type stubClientRepo struct {
	clients map[uuid.UUID]*models.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*models.Client)}
}

func (s *stubClientRepo) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	client.ID = uuid.New()
	s.clients[client.ID] = client
	return client, nil
}

func (s *stubClientRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error) {
	client, ok := s.clients[id]
	if !ok || client.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *client
	return &copied, nil
}

func (s *stubClientRepo) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	s.clients[client.ID] = client
	return client, nil
}

func (s *stubClientRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	client, ok := s.clients[id]
	if !ok || client.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(s.clients, id)
	return nil
}

func (s *stubClientRepo) List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Client, error) {
	var rows []models.Client
	for _, client := range s.clients {
		if client.CompanyID == companyID {
			rows = append(rows, *client)
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func TestCreateClientValidatesName(t *testing.T) {
	svc, err := NewService(newStubClientRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateClientInput{Name: "   "})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientTenantScoping(t *testing.T) {
	repo := newStubClientRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()

	created, err := svc.Create(ctx, companyA, CreateClientInput{Name: "Acme Plumbing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another tenant must see not-found, never a different error.
	_, err = svc.Get(ctx, companyB, created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for cross-tenant read, got %v", err)
	}

	got, err := svc.Get(ctx, companyA, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Acme Plumbing" {
		t.Fatalf("unexpected name %q", got.Name)
	}
}

func TestUpdateClientPartialFields(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := NewService(repo)

	ctx := context.Background()
	companyID := uuid.New()
	email := "old@example.com"
	created, err := svc.Create(ctx, companyID, CreateClientInput{Name: "Original", Email: &email})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Renamed"
	updated, err := svc.Update(ctx, companyID, created.ID, UpdateClientInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected renamed client, got %q", updated.Name)
	}
	if updated.Email == nil || *updated.Email != "old@example.com" {
		t.Fatalf("untouched field should survive, got %v", updated.Email)
	}
}

func TestDeleteClientNotFound(t *testing.T) {
	svc, _ := NewService(newStubClientRepo())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

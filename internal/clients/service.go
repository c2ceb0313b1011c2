package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Service exposes client management operations.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateClientInput) (*ClientDTO, error)
	Get(ctx context.Context, companyID, clientID uuid.UUID) (*ClientDTO, error)
	Update(ctx context.Context, companyID, clientID uuid.UUID, input UpdateClientInput) (*ClientDTO, error)
	Delete(ctx context.Context, companyID, clientID uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ClientListResult, error)
}

type clientStore interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Client, error)
}

type service struct {
	repo clientStore
}

// NewService constructs a client service instance.
func NewService(repo clientStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateClientInput) (*ClientDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client := &models.Client{
		CompanyID:  companyID,
		Name:       name,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Notes:      input.Notes,
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert client")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, companyID, clientID uuid.UUID) (*ClientDTO, error) {
	client, err := s.findScoped(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	return FromModel(client), nil
}

func (s *service) Update(ctx context.Context, companyID, clientID uuid.UUID, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.findScoped(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		client.Name = name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Address != nil {
		client.Address = input.Address
	}
	if input.City != nil {
		client.City = input.City
	}
	if input.PostalCode != nil {
		client.PostalCode = input.PostalCode
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update client")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, clientID uuid.UUID) error {
	if err := s.repo.Delete(ctx, companyID, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "client has quotes or jobs and cannot be deleted")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete client")
	}
	return nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ClientListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, companyID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}

	result := &ClientListResult{Clients: make([]ClientDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Clients = append(result.Clients, *FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) findScoped(ctx context.Context, companyID, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, companyID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}
	return client, nil
}

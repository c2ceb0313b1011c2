package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateSupplierInput) (*SupplierDTO, error)
	Get(ctx context.Context, companyID, supplierID uuid.UUID) (*SupplierDTO, error)
	Update(ctx context.Context, companyID, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	Delete(ctx context.Context, companyID, supplierID uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*SupplierListResult, error)
}

type supplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Supplier, error)
}

type service struct {
	repo supplierStore
}

// NewService constructs a supplier service instance.
func NewService(repo supplierStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateSupplierInput) (*SupplierDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}

	supplier := &models.Supplier{
		CompanyID: companyID,
		Name:      name,
		Email:     input.Email,
		Phone:     input.Phone,
		Notes:     input.Notes,
	}
	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, companyID, supplierID uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.findScoped(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}
	return FromModel(supplier), nil
}

func (s *service) Update(ctx context.Context, companyID, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.findScoped(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name cannot be empty")
		}
		supplier.Name = name
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, supplierID uuid.UUID) error {
	if err := s.repo.Delete(ctx, companyID, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	return nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*SupplierListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, companyID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}

	result := &SupplierListResult{Suppliers: make([]SupplierDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Suppliers = append(result.Suppliers, *FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) findScoped(ctx context.Context, companyID, supplierID uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, companyID, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return supplier, nil
}

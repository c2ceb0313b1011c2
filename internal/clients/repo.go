package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Repository manages persistence for client records. Every query carries the
// company id so a tenant mismatch reads the same as a missing row.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new client row.
func (r *Repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// FindByID loads a client scoped to the company.
func (r *Repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Update persists the full client row.
func (r *Repository) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes the client scoped to the company.
func (r *Repository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of clients ordered by creation time.
func (r *Repository) List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Client, error) {
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Client
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

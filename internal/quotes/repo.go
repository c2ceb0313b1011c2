package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Repository manages persistence for quotes and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Quote, error)

	NextQuoteNumber(ctx context.Context, companyID uuid.UUID) (int, error)
	CreateLineItem(ctx context.Context, line *models.QuoteLineItem) error
	UpdateLineItem(ctx context.Context, line *models.QuoteLineItem) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) Update(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Omit("LineItems").Save(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Quote, error) {
	query := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("company_id = ?", companyID).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Quote
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// NextQuoteNumber returns the next per-company sequence value. Call it inside
// the same transaction that inserts the quote so the unique constraint on
// (company_id, quote_number) backstops concurrent callers.
func (r *repository) NextQuoteNumber(ctx context.Context, companyID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(MAX(quote_number), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repository) CreateLineItem(ctx context.Context, line *models.QuoteLineItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateLineItem(ctx context.Context, line *models.QuoteLineItem) error {
	return r.db.WithContext(ctx).Save(line).Error
}

package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Repository manages persistence for jobs and their material lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Job, error)

	CreateMaterials(ctx context.Context, materials []models.JobMaterial) error
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

func (r *repository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Preload("Materials").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := r.db.WithContext(ctx).Omit("Materials").Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) List(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Job, error) {
	query := r.db.WithContext(ctx).
		Preload("Materials").
		Where("company_id = ?", companyID).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Job
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateMaterials(ctx context.Context, materials []models.JobMaterial) error {
	if len(materials) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&materials).Error
}

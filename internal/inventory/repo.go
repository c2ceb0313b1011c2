package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
)

// Repository manages items and the append-only transaction ledger. There are
// no update or delete paths for transactions; corrections append new rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindItemByID(ctx context.Context, companyID, id uuid.UUID) (*models.InventoryItem, error)
	FindItemsByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, companyID, id uuid.UUID) error
	ListItems(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.InventoryItem, error)

	CreateTransaction(ctx context.Context, row *models.InventoryTransaction) (*models.InventoryTransaction, error)
	CreateTransactions(ctx context.Context, rows []models.InventoryTransaction) error
	TransactionsForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]models.InventoryTransaction, error)
	TransactionsForItems(ctx context.Context, companyID uuid.UUID, itemIDs []uuid.UUID) ([]models.InventoryTransaction, error)
	TransactionsForJob(ctx context.Context, companyID, jobID uuid.UUID) ([]models.InventoryTransaction, error)
	ListTransactions(ctx context.Context, companyID, itemID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.InventoryTransaction, error)
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

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItemByID(ctx context.Context, companyID, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemsByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item scoped to the company. The ledger's RESTRICT
// foreign key rejects the delete when transaction history exists.
func (r *repository) DeleteItem(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.InventoryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListItems(ctx context.Context, companyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateTransaction(ctx context.Context, row *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repository) CreateTransactions(ctx context.Context, rows []models.InventoryTransaction) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// TransactionsForItem loads the complete ledger for one item. Stock levels
// fold over this result.
func (r *repository) TransactionsForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND item_id = ?", companyID, itemID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TransactionsForItems(ctx context.Context, companyID uuid.UUID, itemIDs []uuid.UUID) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	if len(itemIDs) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND item_id IN ?", companyID, itemIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TransactionsForJob(ctx context.Context, companyID, jobID uuid.UUID) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND job_id = ?", companyID, jobID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListTransactions(ctx context.Context, companyID, itemID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND item_id = ?", companyID, itemID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

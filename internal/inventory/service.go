package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/pkg/db"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/pagination"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// Service exposes inventory operations. All quantity changes go through the
// transaction ledger; an insufficient balance produces a warning in the
// response, never an error.
type Service interface {
	CreateItem(ctx context.Context, companyID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, companyID, itemID uuid.UUID) (*ItemDTO, error)
	UpdateItem(ctx context.Context, companyID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, companyID, itemID uuid.UUID) error
	ListItems(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ItemListResult, error)

	StockLevelsForItem(ctx context.Context, companyID, itemID uuid.UUID) (*StockLevels, error)
	CheckAvailability(ctx context.Context, companyID, itemID uuid.UUID, quantity int) (*types.StockWarning, error)

	CreateTransaction(ctx context.Context, companyID uuid.UUID, input CreateTransactionInput) (*TransactionResult, error)
	AdjustStock(ctx context.Context, companyID, itemID uuid.UUID, input AdjustStockInput) (*TransactionResult, error)
	ListTransactions(ctx context.Context, companyID, itemID uuid.UUID, params pagination.Params) (*TransactionListResult, error)

	ReserveMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, requirements []MaterialRequirement) (*ReservationResult, error)
	CancelReservationsForJob(ctx context.Context, companyID, jobID uuid.UUID) (*ReservationResult, error)
	ConsumeMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, materials []MaterialRequirement) (*ReservationResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs an inventory service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateItem inserts the item and, when an initial quantity is given, the
// INITIAL_COUNT ledger row in the same database transaction.
func (s *service) CreateItem(ctx context.Context, companyID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.InitialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	item := &models.InventoryItem{
		CompanyID:   companyID,
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		SupplierID:  input.SupplierID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateItem(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "uq_inventory_items_company_sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", sku))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
		}
		if input.InitialQuantity > 0 {
			row := &models.InventoryTransaction{
				CompanyID: companyID,
				ItemID:    item.ID,
				Quantity:  input.InitialQuantity,
				Type:      enums.TransactionTypeInitialCount,
			}
			if _, err := txRepo.CreateTransaction(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert initial count")
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	stock := StockLevels{Physical: input.InitialQuantity, Available: input.InitialQuantity}
	return itemFromModel(item, stock), nil
}

func (s *service) GetItem(ctx context.Context, companyID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.findItemScoped(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	stock, err := s.foldStock(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	return itemFromModel(item, stock), nil
}

func (s *service) UpdateItem(ctx context.Context, companyID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.findItemScoped(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		item.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		item.UnitPrice = *input.UnitPrice
	}
	if input.SupplierID != nil {
		item.SupplierID = input.SupplierID
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_inventory_items_company_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", item.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}

	stock, err := s.foldStock(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	return itemFromModel(updated, stock), nil
}

// DeleteItem removes an item that has no ledger history. History makes the
// item permanent; the delete surfaces as a conflict instead.
func (s *service) DeleteItem(ctx context.Context, companyID, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, companyID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "item has transaction history and cannot be deleted")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*ItemListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListItems(ctx, companyID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}

	result := &ItemListResult{Items: make([]ItemDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	ledger, err := s.repo.TransactionsForItems(ctx, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ledgers")
	}
	levels := ComputeStockLevelsByItem(ledger)

	for i := range rows {
		result.Items = append(result.Items, *itemFromModel(&rows[i], levels[rows[i].ID.String()]))
	}
	return result, nil
}

func (s *service) StockLevelsForItem(ctx context.Context, companyID, itemID uuid.UUID) (*StockLevels, error) {
	if _, err := s.findItemScoped(ctx, companyID, itemID); err != nil {
		return nil, err
	}
	stock, err := s.foldStock(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// CheckAvailability reports whether the requested quantity is covered by the
// item's available stock. A shortfall is a warning, not an error.
func (s *service) CheckAvailability(ctx context.Context, companyID, itemID uuid.UUID, quantity int) (*types.StockWarning, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	item, err := s.findItemScoped(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	stock, err := s.foldStock(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	return stockWarning(item.SKU, stock.Available, quantity), nil
}

// CreateTransaction appends one ledger row exactly as given. Validation stops
// at type and shape: the type must be one of the six ledger kinds and the
// quantity nonzero, and the caller is responsible for the sign convention per
// type. Optional job and quote ids are stored as correlation tags.
func (s *service) CreateTransaction(ctx context.Context, companyID uuid.UUID, input CreateTransactionInput) (*TransactionResult, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown transaction type %q", input.Type))
	}
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction quantity cannot be zero")
	}

	item, err := s.findItemScoped(ctx, companyID, input.ItemID)
	if err != nil {
		return nil, err
	}

	before, err := s.foldStock(ctx, companyID, input.ItemID)
	if err != nil {
		return nil, err
	}

	row := &models.InventoryTransaction{
		CompanyID: companyID,
		ItemID:    input.ItemID,
		Quantity:  input.Quantity,
		Type:      input.Type,
		Notes:     input.Notes,
		JobID:     input.JobID,
		QuoteID:   input.QuoteID,
	}
	if _, err := s.repo.CreateTransaction(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
	}

	delta := ComputeStockLevels([]models.InventoryTransaction{*row})
	after := StockLevels{
		Physical: before.Physical + delta.Physical,
		Reserved: before.Reserved + delta.Reserved,
	}
	after.Available = after.Physical - after.Reserved

	result := &TransactionResult{
		Transaction: transactionFromModel(row),
		Stock:       after,
	}
	if drop := before.Available - after.Available; drop > 0 {
		result.Warning = stockWarning(item.SKU, before.Available, drop)
	}
	return result, nil
}

// AdjustStock appends one manual correction with the caller's type and signed
// quantity, no sign inference.
func (s *service) AdjustStock(ctx context.Context, companyID, itemID uuid.UUID, input AdjustStockInput) (*TransactionResult, error) {
	return s.CreateTransaction(ctx, companyID, CreateTransactionInput{
		ItemID:   itemID,
		Type:     input.Type,
		Quantity: input.Quantity,
		Notes:    input.Notes,
	})
}

func (s *service) ListTransactions(ctx context.Context, companyID, itemID uuid.UUID, params pagination.Params) (*TransactionListResult, error) {
	if _, err := s.findItemScoped(ctx, companyID, itemID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListTransactions(ctx, companyID, itemID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transactions")
	}

	result := &TransactionListResult{Transactions: make([]TransactionDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Transactions = append(result.Transactions, transactionFromModel(&rows[i]))
	}
	return result, nil
}

// ReserveMaterialsForJob writes one RESERVATION row per requirement in a
// single database transaction. Shortfalls come back as warnings; the
// reservations are still recorded.
func (s *service) ReserveMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, requirements []MaterialRequirement) (*ReservationResult, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id is required")
	}
	if len(requirements) == 0 {
		return &ReservationResult{}, nil
	}

	ids := make([]uuid.UUID, 0, len(requirements))
	seen := make(map[uuid.UUID]bool, len(requirements))
	for _, req := range requirements {
		if req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
		}
		if seen[req.ItemID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in material requirements")
		}
		seen[req.ItemID] = true
		ids = append(ids, req.ItemID)
	}

	items, err := s.itemsByID(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}

	ledger, err := s.repo.TransactionsForItems(ctx, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ledgers")
	}
	levels := ComputeStockLevelsByItem(ledger)

	result := &ReservationResult{}
	rows := make([]models.InventoryTransaction, 0, len(requirements))
	for _, req := range requirements {
		rows = append(rows, models.InventoryTransaction{
			CompanyID: companyID,
			ItemID:    req.ItemID,
			Quantity:  -req.Quantity,
			Type:      enums.TransactionTypeReservation,
			JobID:     &jobID,
		})
		available := levels[req.ItemID.String()].Available
		if warning := stockWarning(items[req.ItemID].SKU, available, req.Quantity); warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateTransactions(ctx, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservations")
	}

	for i := range rows {
		result.Transactions = append(result.Transactions, transactionFromModel(&rows[i]))
	}
	return result, nil
}

// CancelReservationsForJob appends one RESERVATION_COMPENSATION row per item
// with an outstanding balance, returning the reserved quantities to
// available stock. Already-released reservations are left alone, so the call
// is safe to repeat.
func (s *service) CancelReservationsForJob(ctx context.Context, companyID, jobID uuid.UUID) (*ReservationResult, error) {
	outstanding, err := s.outstandingByItem(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}

	result := &ReservationResult{}
	rows := make([]models.InventoryTransaction, 0, len(outstanding))
	for itemID, qty := range outstanding {
		rows = append(rows, models.InventoryTransaction{
			CompanyID: companyID,
			ItemID:    itemID,
			Quantity:  qty,
			Type:      enums.TransactionTypeReservationCompensation,
			JobID:     &jobID,
		})
	}
	if len(rows) == 0 {
		return result, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateTransactions(ctx, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert compensations")
	}

	for i := range rows {
		result.Transactions = append(result.Transactions, transactionFromModel(&rows[i]))
	}
	return result, nil
}

// ConsumeMaterialsForJob writes a compensation/consumption pair per material.
// With an explicit materials list the caller's quantities are consumed; with
// none, every outstanding reservation on the job is. Both rows for every item
// land in one database transaction so the ledger never shows a half-consumed
// job.
func (s *service) ConsumeMaterialsForJob(ctx context.Context, companyID, jobID uuid.UUID, materials []MaterialRequirement) (*ReservationResult, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id is required")
	}

	var quantities map[uuid.UUID]int
	if len(materials) == 0 {
		outstanding, err := s.outstandingByItem(ctx, companyID, jobID)
		if err != nil {
			return nil, err
		}
		quantities = outstanding
	} else {
		quantities = make(map[uuid.UUID]int, len(materials))
		for _, material := range materials {
			if material.Quantity <= 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
			}
			if _, dup := quantities[material.ItemID]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in material requirements")
			}
			quantities[material.ItemID] = material.Quantity
		}
	}

	result := &ReservationResult{}
	if len(quantities) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for itemID := range quantities {
		ids = append(ids, itemID)
	}
	items, err := s.itemsByID(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	ledger, err := s.repo.TransactionsForItems(ctx, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ledgers")
	}
	levels := ComputeStockLevelsByItem(ledger)

	rows := make([]models.InventoryTransaction, 0, 2*len(quantities))
	for itemID, qty := range quantities {
		rows = append(rows,
			models.InventoryTransaction{
				CompanyID: companyID,
				ItemID:    itemID,
				Quantity:  qty,
				Type:      enums.TransactionTypeReservationCompensation,
				JobID:     &jobID,
			},
			models.InventoryTransaction{
				CompanyID: companyID,
				ItemID:    itemID,
				Quantity:  -qty,
				Type:      enums.TransactionTypeConsumption,
				JobID:     &jobID,
			},
		)
		if levels[itemID.String()].Physical < qty {
			if warning := stockWarning(items[itemID].SKU, levels[itemID.String()].Physical, qty); warning != nil {
				result.Warnings = append(result.Warnings, *warning)
			}
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateTransactions(ctx, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert consumption")
	}

	for i := range rows {
		result.Transactions = append(result.Transactions, transactionFromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) findItemScoped(ctx context.Context, companyID, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindItemByID(ctx, companyID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return item, nil
}

func (s *service) itemsByID(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.InventoryItem, error) {
	items, err := s.repo.FindItemsByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load items")
	}
	byID := make(map[uuid.UUID]models.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %s not found", id))
		}
	}
	return byID, nil
}

func (s *service) foldStock(ctx context.Context, companyID, itemID uuid.UUID) (StockLevels, error) {
	rows, err := s.repo.TransactionsForItem(ctx, companyID, itemID)
	if err != nil {
		return StockLevels{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ledger")
	}
	return ComputeStockLevels(rows), nil
}

func (s *service) outstandingByItem(ctx context.Context, companyID, jobID uuid.UUID) (map[uuid.UUID]int, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id is required")
	}
	rows, err := s.repo.TransactionsForJob(ctx, companyID, jobID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load job ledger")
	}

	grouped := make(map[uuid.UUID][]models.InventoryTransaction)
	for _, row := range rows {
		grouped[row.ItemID] = append(grouped[row.ItemID], row)
	}
	outstanding := make(map[uuid.UUID]int)
	for itemID, itemRows := range grouped {
		if qty := outstandingReservation(itemRows); qty > 0 {
			outstanding[itemID] = qty
		}
	}
	return outstanding, nil
}

func stockWarning(sku string, available, requested int) *types.StockWarning {
	if available >= requested {
		return nil
	}
	return &types.StockWarning{
		Message:           fmt.Sprintf("insufficient stock for %s: requested %d, available %d", sku, requested, available),
		AvailableQuantity: available,
		RequestedQuantity: requested,
	}
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	"github.com/tradehub-app/tradehub-backend/pkg/types"
)

// ItemDTO is the transport shape for an inventory item plus its derived
// stock levels.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty"`
	Stock       StockLevels     `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateItemInput holds the validated payload to create an item. The initial
// quantity becomes an INITIAL_COUNT ledger row in the same transaction as the
// item insert.
type CreateItemInput struct {
	SKU             string
	Name            string
	Description     *string
	UnitPrice       decimal.Decimal
	SupplierID      *uuid.UUID
	InitialQuantity int
}

// UpdateItemInput holds optional mutation values for an item. The ledger is
// untouched by updates; quantities only ever change through transactions.
type UpdateItemInput struct {
	SKU         *string
	Name        *string
	Description *string
	UnitPrice   *decimal.Decimal
	SupplierID  *uuid.UUID
}

// ItemListResult carries one page of items plus the next cursor.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// TransactionDTO is the transport shape for a ledger entry.
type TransactionDTO struct {
	ID        uuid.UUID             `json:"id"`
	ItemID    uuid.UUID             `json:"item_id"`
	Quantity  int                   `json:"quantity"`
	Type      enums.TransactionType `json:"type"`
	JobID     *uuid.UUID            `json:"job_id,omitempty"`
	QuoteID   *uuid.UUID            `json:"quote_id,omitempty"`
	Notes     *string               `json:"notes,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// CreateTransactionInput records a manual ledger entry. Quantity is stored
// exactly as given; the caller owns the sign convention per type
// (reservations and consumption negative, the rest positive).
type CreateTransactionInput struct {
	ItemID   uuid.UUID
	Type     enums.TransactionType
	Quantity int
	Notes    *string
	JobID    *uuid.UUID
	QuoteID  *uuid.UUID
}

// AdjustStockInput is a manual correction: the caller names the type and the
// signed quantity, and both are appended as-is.
type AdjustStockInput struct {
	Quantity int
	Type     enums.TransactionType
	Notes    *string
}

// TransactionResult pairs the recorded entry with the item's new stock
// levels and an oversell warning when available went negative.
type TransactionResult struct {
	Transaction TransactionDTO      `json:"transaction"`
	Stock       StockLevels         `json:"stock"`
	Warning     *types.StockWarning `json:"warning,omitempty"`
}

// TransactionListResult carries one page of ledger entries.
type TransactionListResult struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

// MaterialRequirement names one item and the quantity a job needs from it.
type MaterialRequirement struct {
	ItemID   uuid.UUID
	Quantity int
}

// ReservationResult reports the ledger writes of a job-level reservation or
// consumption batch, with per-item oversell warnings.
type ReservationResult struct {
	Transactions []TransactionDTO     `json:"transactions"`
	Warnings     []types.StockWarning `json:"warnings,omitempty"`
}

func itemFromModel(item *models.InventoryItem, stock StockLevels) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		SupplierID:  item.SupplierID,
		Stock:       stock,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func transactionFromModel(row *models.InventoryTransaction) TransactionDTO {
	return TransactionDTO{
		ID:        row.ID,
		ItemID:    row.ItemID,
		Quantity:  row.Quantity,
		Type:      row.Type,
		JobID:     row.JobID,
		QuoteID:   row.QuoteID,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
	}
}

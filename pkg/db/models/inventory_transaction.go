package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// InventoryTransaction is an immutable, append-only ledger entry. Rows are
// never updated or deleted; corrections append a compensating transaction.
type InventoryTransaction struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID uuid.UUID             `gorm:"column:company_id;type:uuid;not null;index"`
	ItemID    uuid.UUID             `gorm:"column:item_id;type:uuid;not null;index"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	Type      enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	JobID     *uuid.UUID            `gorm:"column:job_id;type:uuid;index"`
	QuoteID   *uuid.UUID            `gorm:"column:quote_id;type:uuid"`
	Notes     *string               `gorm:"column:notes"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

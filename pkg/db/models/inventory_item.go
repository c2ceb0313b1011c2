package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked product. It carries no quantity counters:
// physical/reserved/available are derived by folding the item's transactions
// on every read.
type InventoryItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID   uuid.UUID       `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_inventory_items_company_sku"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex:uq_inventory_items_company_sku"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	SupplierID  *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

type Quote struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID   uuid.UUID         `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_quotes_company_number"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	QuoteNumber int               `gorm:"column:quote_number;not null;uniqueIndex:uq_quotes_company_number"`
	Status      enums.QuoteStatus `gorm:"column:status;type:quote_status_enum;not null;default:'PENDING'"`
	Notes       *string           `gorm:"column:notes"`
	ApprovedAt  *time.Time        `gorm:"column:approved_at"`
	LineItems   []QuoteLineItem   `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

type QuoteLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID     uuid.UUID       `gorm:"column:quote_id;type:uuid;not null;index"`
	ItemID      *uuid.UUID      `gorm:"column:item_id;type:uuid"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

type Job struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID    uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	ClientID     uuid.UUID       `gorm:"column:client_id;type:uuid;not null"`
	QuoteID      *uuid.UUID      `gorm:"column:quote_id;type:uuid"`
	Title        string          `gorm:"column:title;not null"`
	Description  *string         `gorm:"column:description"`
	Status       enums.JobStatus `gorm:"column:status;type:job_status_enum;not null;default:'PENDING'"`
	ScheduledFor *time.Time      `gorm:"column:scheduled_for"`
	Materials    []JobMaterial   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// JobMaterial is a planned material line; reservations and consumption are
// recorded separately in the inventory transaction ledger, keyed by job_id.
type JobMaterial struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID     uuid.UUID `gorm:"column:job_id;type:uuid;not null;index"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

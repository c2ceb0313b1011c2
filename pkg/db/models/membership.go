package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// Membership links a user to a company with a role.
type Membership struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_memberships_user_company"`
	CompanyID uuid.UUID        `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_memberships_user_company"`
	Role      enums.MemberRole `gorm:"column:role;type:member_role_enum;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}

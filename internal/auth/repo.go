package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/internal/users"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// Repository bundles the persistence the auth flows need: tenant bootstrap
// plus user and membership lookups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCompany(ctx context.Context, company *models.Company) error
	CreateUser(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateMembership(ctx context.Context, userID, companyID uuid.UUID, role enums.MemberRole) (*models.Membership, error)
	FindMembership(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error)
	FirstMembershipForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
}

type repository struct {
	db    *gorm.DB
	users *users.Repository
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, users: users.NewRepository(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, users: r.users.WithTx(tx)}
}

func (r *repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) CreateUser(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	return r.users.Create(ctx, dto)
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.FindByEmail(ctx, email)
}

func (r *repository) CreateMembership(ctx context.Context, userID, companyID uuid.UUID, role enums.MemberRole) (*models.Membership, error) {
	return r.users.CreateMembership(ctx, userID, companyID, role)
}

func (r *repository) FindMembership(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error) {
	return r.users.FindMembership(ctx, userID, companyID)
}

func (r *repository) FirstMembershipForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	return r.users.FirstMembershipForUser(ctx, userID)
}

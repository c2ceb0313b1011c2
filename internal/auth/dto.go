package auth

import (
	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/internal/users"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
)

// RegisterCompanyInput bootstraps a tenant: the company plus its owner
// account in one shot.
type RegisterCompanyInput struct {
	CompanyName string
	Email       string
	Password    string
	FirstName   string
	LastName    string
}

// LoginInput authenticates a user. CompanyID is optional; when empty the
// earliest membership decides the tenant the session is scoped to.
type LoginInput struct {
	Email     string
	Password  string
	CompanyID *uuid.UUID
}

// TokenPair is what clients hold between requests.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult carries the session tokens plus the identity they belong to.
type AuthResult struct {
	Tokens    TokenPair        `json:"tokens"`
	User      users.UserDTO    `json:"user"`
	CompanyID uuid.UUID        `json:"company_id"`
	Role      enums.MemberRole `json:"role"`
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradehub-app/tradehub-backend/internal/users"
	pkgauth "github.com/tradehub-app/tradehub-backend/pkg/auth"
	"github.com/tradehub-app/tradehub-backend/pkg/auth/session"
	"github.com/tradehub-app/tradehub-backend/pkg/config"
	"github.com/tradehub-app/tradehub-backend/pkg/db"
	"github.com/tradehub-app/tradehub-backend/pkg/db/models"
	"github.com/tradehub-app/tradehub-backend/pkg/enums"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
	"github.com/tradehub-app/tradehub-backend/pkg/security"
)

const minPasswordLength = 8

// Service drives registration, login, and session lifecycle. Access tokens
// are JWTs scoped to one company; refresh tokens live in Redis keyed by the
// access token's jti.
type Service interface {
	RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     Repository
	tx       txRunner
	sessions sessionManager
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(repo Repository, tx txRunner, sessions sessionManager, jwt config.JWTConfig, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		sessions: sessions,
		jwt:      jwt,
		password: password,
		now:      time.Now,
	}, nil
}

// RegisterCompany creates the company, its owner account, and the owner
// membership in one transaction, then opens a session.
func (s *service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*AuthResult, error) {
	companyName := strings.TrimSpace(input.CompanyName)
	email := normalizeEmail(input.Email)
	if companyName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	company := &models.Company{Name: companyName}
	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateCompany(ctx, company); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert company")
		}
		user, err = txRepo.CreateUser(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
		})
		if err != nil {
			if db.IsUniqueViolation(err, "uq_users_email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
		}
		if _, err := txRepo.CreateMembership(ctx, user.ID, company.ID, enums.MemberRoleOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert membership")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register company")
	}

	return s.openSession(ctx, user, company.ID, enums.MemberRoleOwner)
}

// Login verifies the password and opens a session scoped to one company.
// Unknown email and wrong password collapse into the same unauthorized
// answer.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	membership, err := s.resolveMembership(ctx, user.ID, input.CompanyID)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, membership.CompanyID, membership.Role)
}

// Refresh rotates the refresh token and mints a new access token for the
// same identity. The old access token may already be expired; its signature
// still has to check out.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
		JTI:       newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session tied to the access token's jti. The
// access token stops passing the middleware session check immediately.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: revoke session")
	}
	return nil
}

func (s *service) resolveMembership(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) (*models.Membership, error) {
	var membership *models.Membership
	var err error
	if companyID != nil {
		membership, err = s.repo.FindMembership(ctx, userID, *companyID)
	} else {
		membership, err = s.repo.FirstMembershipForUser(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load membership")
	}
	return membership, nil
}

func (s *service) openSession(ctx context.Context, user *models.User, companyID uuid.UUID, role enums.MemberRole) (*AuthResult, error) {
	accessID := session.NewAccessID()
	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      role,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: create session")
	}

	return &AuthResult{
		Tokens:    TokenPair{AccessToken: access, RefreshToken: refresh},
		User:      *users.FromModel(user),
		CompanyID: companyID,
		Role:      role,
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

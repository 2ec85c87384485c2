package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verduraria/backend/internal/loyalty"
	pkgAuth "github.com/verduraria/backend/pkg/auth"
	"github.com/verduraria/backend/pkg/config"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/security"
)

// RegisterInput holds the validated payload to create a customer account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	TaxID      string
	Phone      string
	PostalCode string
	Street     string
	District   string
	City       string
}

// Session pairs an authenticated user with a freshly minted access token.
type Session struct {
	User  *models.User
	Token string
}

// Service issues identities. Downstream components only consume the
// resulting {tax id, role} pair from the token claims.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// FederatedLogin exchanges a provider token for a local session,
	// creating the account on first sight.
	FederatedLogin(ctx context.Context, provider, token string) (*Session, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// SeedAdmin ensures the bootstrap admin account from config exists.
	SeedAdmin(ctx context.Context) error
}

type service struct {
	repo        *Repository
	verifier    IdentityVerifier
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	adminCfg    config.AdminConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs an auth service instance. The identity verifier may
// be nil, which disables federated login.
func NewService(
	repo *Repository,
	verifier IdentityVerifier,
	jwtCfg config.JWTConfig,
	passwordCfg config.PasswordConfig,
	adminCfg config.AdminConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		verifier:    verifier,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		adminCfg:    adminCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
		Phone:        strings.TrimSpace(input.Phone),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Street:       strings.TrimSpace(input.Street),
		District:     strings.TrimSpace(input.District),
		City:         strings.TrimSpace(input.City),
	}
	if taxID := loyalty.NormalizeTaxID(input.TaxID); taxID != "" {
		user.TaxID = &taxID
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "customer registered")

	return s.sessionFor(user)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.sessionFor(user)
}

func (s *service) FederatedLogin(ctx context.Context, provider, token string) (*Session, error) {
	if s.verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "federated login is not configured")
	}

	identity, err := s.verifier.Verify(ctx, provider, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByOAuth(ctx, identity.Provider, identity.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil && identity.Email != "" {
		// a password account with the same email adopts the provider link
		user, err = s.repo.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.OAuthProvider = &identity.Provider
			user.OAuthSubject = &identity.Subject
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	if user == nil {
		if identity.Email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity provider did not share an email")
		}
		user = &models.User{
			ID:            uuid.New(),
			Name:          identity.Name,
			Email:         NormalizeEmail(identity.Email),
			Role:          enums.UserRoleCustomer,
			OAuthProvider: &identity.Provider,
			OAuthSubject:  &identity.Subject,
		}
		if _, err := s.repo.Create(ctx, user); err != nil {
			return nil, err
		}

		ctx = s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Info(ctx, "federated customer registered")
	}

	return s.sessionFor(user)
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) SeedAdmin(ctx context.Context) error {
	if s.adminCfg.Email == "" || s.adminCfg.Password == "" {
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, s.adminCfg.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := security.HashPassword(s.adminCfg.Password, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &models.User{
		ID:           uuid.New(),
		Name:         "Administrador",
		Email:        NormalizeEmail(s.adminCfg.Email),
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	}
	if _, err := s.repo.Create(ctx, admin); err != nil {
		return err
	}

	s.logg.Info(ctx, "bootstrap admin seeded")
	return nil
}

func (s *service) sessionFor(user *models.User) (*Session, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		TaxID:  user.TaxID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &Session{User: user, Token: token}, nil
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmarquez/autoglass-backend/internal/users"
	"github.com/dmarquez/autoglass-backend/pkg/auth"
	"github.com/dmarquez/autoglass-backend/pkg/auth/session"
	"github.com/dmarquez/autoglass-backend/pkg/config"
	"github.com/dmarquez/autoglass-backend/pkg/db"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/security"
	"gorm.io/gorm"
)

// SessionManager is the redis-backed session surface the service needs.
// session.Manager satisfies it.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service owns sign-in, token rotation, revocation, and staff provisioning.
type Service struct {
	users    *users.Repository
	sessions SessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the auth service.
func NewService(
	usersRepo *users.Repository,
	sessions SessionManager,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) *Service {
	return &Service{
		users:    usersRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}
}

// Login verifies credentials and opens a session. Bad email, bad password,
// and deactivated accounts all collapse into the same unauthorized error.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Tokens, *users.UserDTO, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, invalid
		}
		return nil, nil, db.Classify(err)
	}
	if !user.IsActive {
		return nil, nil, invalid
	}

	ok, err := security.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, nil, invalid
	}

	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening session")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "updating last login failed")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user signed in")
	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, users.FromModel(user), nil
}

// Refresh rotates the session tied to the (possibly expired) access token and
// mints a fresh pair.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Tokens, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	newAccessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &Tokens{AccessToken: newAccessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session behind the access token. An already invalid
// token is not an error; the client ends up signed out either way.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Register provisions a staff account with an Argon2id password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.UserDTO, error) {
	role := enums.StaffRoleStaff
	if in.Role != "" {
		parsed, err := enums.ParseStaffRole(in.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid staff role")
		}
		role = parsed
	}

	hash, err := security.HashPassword(in.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
	})
	if err != nil {
		return nil, db.Classify(err)
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "staff account created")
	return users.FromModel(user), nil
}

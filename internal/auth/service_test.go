package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmarquez/autoglass-backend/internal/users"
	pkgauth "github.com/dmarquez/autoglass-backend/pkg/auth"
	"github.com/dmarquez/autoglass-backend/pkg/auth/session"
	"github.com/dmarquez/autoglass-backend/pkg/config"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "autoglass-test",
	ExpirationMinutes: 15,
}

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	s.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'staff',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *stubSessions) {
	t.Helper()

	sessions := newStubSessions()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc := NewService(users.NewRepository(db), sessions, testJWTConfig, config.PasswordConfig{}, logg)
	return svc, sessions
}

func registerUser(t *testing.T, svc *Service, email, password string) *users.UserDTO {
	t.Helper()

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Dana",
		LastName:  "Field",
	})
	require.NoError(t, err)
	return user
}

func TestLoginSuccess(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)
	registered := registerUser(t, svc, "dana@example.com", "s3cret-pass")

	tokens, user, err := svc.Login(context.Background(), LoginInput{
		Email:    "Dana@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, enums.StaffRoleStaff, claims.Role)

	reloaded, err := users.NewRepository(db).FindByID(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)
	registerUser(t, svc, "dana@example.com", "s3cret-pass")

	cases := map[string]LoginInput{
		"wrong password": {Email: "dana@example.com", Password: "wrong"},
		"unknown email":  {Email: "nobody@example.com", Password: "s3cret-pass"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
		})
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)
	registered := registerUser(t, svc, "dana@example.com", "s3cret-pass")

	require.NoError(t, db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", registered.ID).Error)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)
	registerUser(t, svc, "dana@example.com", "s3cret-pass")

	tokens, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), tokens.AccessToken, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old pair is burned.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken, tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, sessions := newTestService(t, db)
	registerUser(t, svc, "dana@example.com", "s3cret-pass")

	tokens, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))
	assert.Len(t, sessions.revoked, 1)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken, tokens.RefreshToken)
	require.Error(t, err)
}

func TestLogoutIgnoresGarbageToken(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)

	require.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}

func TestRegisterValidatesRole(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newTestService(t, db)

	admin, err := svc.Register(context.Background(), RegisterInput{
		Email:     "boss@example.com",
		Password:  "s3cret-pass",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Role:      "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:     "x@example.com",
		Password:  "s3cret-pass",
		FirstName: "X",
		LastName:  "Y",
		Role:      "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

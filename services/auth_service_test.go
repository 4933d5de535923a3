package services

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirsoyer/concord/database"
	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
	"github.com/emirsoyer/concord/repository"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	sessionRepo := repository.NewSQLiteSessionRepo(db.Conn)
	return NewAuthService(userRepo, sessionRepo, "test-secret", 15, 7)
}

func registerReq(username string) *models.CreateUserRequest {
	return &models.CreateUserRequest{Username: username, Password: "password123"}
}

func TestAuth_RegisterAndValidate(t *testing.T) {
	svc := newAuthFixture(t)

	tokens, err := svc.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "alice", tokens.User.Username)
	assert.Empty(t, tokens.User.PasswordHash)

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuth_RegisterDuplicateUsername(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Register(t.Context(), registerReq("alice"))
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestAuth_RegisterInvalidRequest(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(t.Context(), &models.CreateUserRequest{
		Username: "ab", // çok kısa
		Password: "password123",
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.Register(t.Context(), &models.CreateUserRequest{
		Username: "alice",
		Password: "short",
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAuth_Login(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	tokens, err := svc.Login(t.Context(), &models.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusOnline, tokens.User.Status)

	// yanlış parola ve bilinmeyen kullanıcı aynı hatayı verir
	_, err = svc.Login(t.Context(), &models.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	_, err = svc.Login(t.Context(), &models.LoginRequest{
		Username: "nobody",
		Password: "password123",
	})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuth_RefreshRotatesSession(t *testing.T) {
	svc := newAuthFixture(t)

	tokens, err := svc.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// eski refresh token artık geçersiz
	_, err = svc.RefreshToken(t.Context(), tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// yenisi çalışır
	_, err = svc.RefreshToken(t.Context(), rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestAuth_Logout(t *testing.T) {
	svc := newAuthFixture(t)

	tokens, err := svc.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(t.Context(), tokens.RefreshToken))

	_, err = svc.RefreshToken(t.Context(), tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// bilinmeyen token'la logout no-op
	assert.NoError(t, svc.Logout(t.Context(), "no-such-token"))
}

func TestAuth_ValidateRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

// Farklı secret ile imzalanmış token reddedilmeli.
func TestAuth_ValidateRejectsWrongSecret(t *testing.T) {
	svcA := newAuthFixture(t)
	svcB := newAuthFixture(t)

	tokens, err := svcA.Register(t.Context(), registerReq("alice"))
	require.NoError(t, err)

	// svcB aynı secret'ı kullanıyor — kendi token'ını kabul eder,
	// bozulmuş token'ı etmez
	_, err = svcB.ValidateAccessToken(tokens.AccessToken)
	assert.NoError(t, err)

	tampered := tokens.AccessToken + "x"
	_, err = svcB.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

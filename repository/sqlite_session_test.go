package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
)

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteSessionRepo(db.Conn)
	aliceID := seedUser(t, db, "alice")

	expired := &models.Session{
		UserID:       aliceID,
		RefreshToken: "expired-token",
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	live := &models.Session{
		UserID:       aliceID,
		RefreshToken: "live-token",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Create(t.Context(), expired))
	require.NoError(t, repo.Create(t.Context(), live))

	require.NoError(t, repo.DeleteExpired(t.Context()))

	// süresi dolan gitti, dolmayan kaldı
	_, err := repo.GetByRefreshToken(t.Context(), "expired-token")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	got, err := repo.GetByRefreshToken(t.Context(), "live-token")
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
}

func TestSessionRepo_CreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteSessionRepo(db.Conn)
	aliceID := seedUser(t, db, "alice")

	session := &models.Session{
		UserID:       aliceID,
		RefreshToken: "some-token",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Create(t.Context(), session))

	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
}

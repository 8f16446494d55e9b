package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/brainrot/internal/client/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test-session.db")
	s, err := New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func testSession() *storage.Session {
	return &storage.Session{
		ServerURL: "http://localhost:3000",
		Token:     "jwt-token",
		UserID:    "user1",
		Username:  "testuser",
		Email:     "test@example.com",
		ExpiresAt: 1900000000,
	}
}

func TestSessionStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveSession(ctx, testSession()))

	got, err := s.GetSession(ctx)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", got.ServerURL)
	assert.Equal(t, "jwt-token", got.Token)
	assert.Equal(t, "user1", got.UserID)
	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, int64(1900000000), got.ExpiresAt)
}

func TestSessionStorage_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveSession(ctx, testSession()))

	updated := testSession()
	updated.Token = "new-jwt-token"
	updated.Username = "renamed"
	require.NoError(t, s.SaveSession(ctx, updated))

	got, err := s.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-jwt-token", got.Token)
	assert.Equal(t, "renamed", got.Username)
}

func TestSessionStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveSession(ctx, testSession()))
	require.NoError(t, s.DeleteSession(ctx))

	_, err := s.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	err := s.DeleteSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, testSession()))
	require.NoError(t, s.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user1", got.UserID)
}

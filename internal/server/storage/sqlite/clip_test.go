package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/brainrot/internal/models"
)

func newClip(userID, username string, createdAt time.Time) *models.Clip {
	return &models.Clip{
		ID:        uuid.New().String(),
		VideoURL:  fmt.Sprintf("https://cdn.example.com/%s.mp4", uuid.New().String()),
		UserID:    userID,
		Username:  username,
		CreatedAt: createdAt,
	}
}

func TestClipStorage_CreateClip(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	clip := newClip("user1", "alice", time.Now())
	err := s.CreateClip(ctx, clip)
	require.NoError(t, err)

	clips, err := s.ListClips(ctx)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, clip.ID, clips[0].ID)
	assert.Equal(t, clip.VideoURL, clips[0].VideoURL)
	assert.Equal(t, "user1", clips[0].UserID)
	assert.Equal(t, "alice", clips[0].Username)
}

func TestClipStorage_ListClips_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	oldest := newClip("user1", "alice", now.Add(-2*time.Hour))
	middle := newClip("user2", "bob", now.Add(-time.Hour))
	newest := newClip("user1", "alice", now)

	// Вставляем не по порядку, сортировать должна БД
	require.NoError(t, s.CreateClip(ctx, middle))
	require.NoError(t, s.CreateClip(ctx, newest))
	require.NoError(t, s.CreateClip(ctx, oldest))

	clips, err := s.ListClips(ctx)
	require.NoError(t, err)
	require.Len(t, clips, 3)
	assert.Equal(t, newest.ID, clips[0].ID)
	assert.Equal(t, middle.ID, clips[1].ID)
	assert.Equal(t, oldest.ID, clips[2].ID)
}

func TestClipStorage_ListClips_Empty(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	clips, err := s.ListClips(ctx)
	require.NoError(t, err)
	assert.NotNil(t, clips)
	assert.Empty(t, clips)
}

func TestClipStorage_ListClipsByUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, s.CreateClip(ctx, newClip("user1", "alice", now.Add(-time.Hour))))
	require.NoError(t, s.CreateClip(ctx, newClip("user2", "bob", now.Add(-30*time.Minute))))
	mine := newClip("user1", "alice", now)
	require.NoError(t, s.CreateClip(ctx, mine))

	clips, err := s.ListClipsByUser(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, clips, 2)
	assert.Equal(t, mine.ID, clips[0].ID)
	for _, clip := range clips {
		assert.Equal(t, "user1", clip.UserID)
	}
}

func TestClipStorage_ListClipsByUser_NoClips(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateClip(ctx, newClip("user2", "bob", time.Now())))

	clips, err := s.ListClipsByUser(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, clips)
}

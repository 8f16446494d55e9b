package storage

import (
	"context"

	"github.com/iudanet/brainrot/internal/models"
)

// ClipStorage defines interface for clip history persistence
// Клипы создаются после успешной генерации и никогда не мутируются
type ClipStorage interface {
	// CreateClip persists a generated clip
	CreateClip(ctx context.Context, clip *models.Clip) error

	// ListClips returns all clips, newest first
	ListClips(ctx context.Context) ([]*models.Clip, error)

	// ListClipsByUser returns clips generated by the given user, newest first
	ListClipsByUser(ctx context.Context, userID string) ([]*models.Clip, error)
}

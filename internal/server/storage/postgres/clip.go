package postgres

import (
	"context"
	"fmt"

	"github.com/iudanet/brainrot/internal/models"
)

// CreateClip persists a generated clip
func (s *Storage) CreateClip(ctx context.Context, clip *models.Clip) error {
	query := `
		INSERT INTO clips (id, video_url, user_id, username, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		clip.ID,
		clip.VideoURL,
		clip.UserID,
		clip.Username,
		clip.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert clip: %w", err)
	}

	return nil
}

// ListClips returns all clips, newest first
func (s *Storage) ListClips(ctx context.Context) ([]*models.Clip, error) {
	query := `
		SELECT id, video_url, user_id, username, created_at
		FROM clips
		ORDER BY created_at DESC
	`

	return s.queryClips(ctx, query)
}

// ListClipsByUser returns clips generated by the given user, newest first
func (s *Storage) ListClipsByUser(ctx context.Context, userID string) ([]*models.Clip, error) {
	query := `
		SELECT id, video_url, user_id, username, created_at
		FROM clips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return s.queryClips(ctx, query, userID)
}

// queryClips выполняет SELECT и сканирует список клипов
func (s *Storage) queryClips(ctx context.Context, query string, args ...any) ([]*models.Clip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clips: %w", err)
	}
	defer rows.Close()

	clips := []*models.Clip{}
	for rows.Next() {
		clip := &models.Clip{}
		if err := rows.Scan(&clip.ID, &clip.VideoURL, &clip.UserID, &clip.Username, &clip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan clip: %w", err)
		}
		clips = append(clips, clip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clips: %w", err)
	}

	return clips, nil
}

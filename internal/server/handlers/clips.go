package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/brainrot/internal/models"
	"github.com/iudanet/brainrot/internal/server/generator"
	"github.com/iudanet/brainrot/internal/server/storage"
	"github.com/iudanet/brainrot/internal/validation"
	"github.com/iudanet/brainrot/pkg/api"
)

// ClipsHandler обрабатывает генерацию клипов и историю
type ClipsHandler struct {
	logger      *slog.Logger
	clipStorage storage.ClipStorage
	generator   generator.ClipGenerator
}

// NewClipsHandler создает новый handler для клипов
func NewClipsHandler(logger *slog.Logger, clipStorage storage.ClipStorage, gen generator.ClipGenerator) *ClipsHandler {
	return &ClipsHandler{
		logger:      logger,
		clipStorage: clipStorage,
		generator:   gen,
	}
}

// Generate обрабатывает POST /api/clips/generate
// Валидация выполняется до обращения к AI сервису: невалидный запрос
// не порождает upstream вызов. Один запрос, без ретраев - на той стороне
// долгая генерация, и интерактивный пользователь ее ждет
func (h *ClipsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	username, _ := GetUsername(ctx)

	var req api.GenerateClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode generate request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateBackgroundVideo(req.BackgroundVideo); err != nil {
		h.logger.WarnContext(ctx, "invalid background_video", slog.String("background", req.BackgroundVideo))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateTopic(req.Topic); err != nil {
		h.logger.WarnContext(ctx, "invalid topic", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(ctx, "forwarding generate request",
		slog.String("user_id", userID),
		slog.String("background", req.BackgroundVideo))

	resp, err := h.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, generator.ErrUnavailable) {
			h.logger.ErrorContext(ctx, "AI service unavailable", slog.Any("error", err))
			sendError(h.logger, w, "AI service is not running", http.StatusServiceUnavailable)
			return
		}
		// Таймаут и прочие сетевые ошибки - это отказ, не "еще в работе"
		h.logger.ErrorContext(ctx, "generate request failed", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusInternalServerError)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		h.persistClip(r, resp.Body, userID, username)
	}

	// Тело upstream ответа пересылается без изменений, включая ошибки
	// с их оригинальным статусом
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		h.logger.ErrorContext(ctx, "failed to relay generate response", slog.Any("error", err))
	}
}

// persistClip сохраняет клип из успешного upstream ответа
// Ошибка записи не валит запрос: видео уже сгенерировано, и ответ
// пользователю важнее потерянной строки истории
func (h *ClipsHandler) persistClip(r *http.Request, body []byte, userID, username string) {
	ctx := r.Context()

	var generated api.GenerateClipResponse
	if err := json.Unmarshal(body, &generated); err != nil || generated.VideoURL == "" {
		h.logger.WarnContext(ctx, "upstream response has no video_url, clip not persisted")
		return
	}

	clip := &models.Clip{
		ID:        uuid.New().String(),
		VideoURL:  generated.VideoURL,
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
	}

	if err := h.clipStorage.CreateClip(ctx, clip); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist clip", slog.Any("error", err))
		return
	}

	h.logger.InfoContext(ctx, "clip persisted",
		slog.String("clip_id", clip.ID),
		slog.String("user_id", userID))
}

// ListAll обрабатывает GET /api/clips
// Публичная лента всех клипов, новые первыми
func (h *ClipsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clips, err := h.clipStorage.ListClips(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list clips", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, clipsResponse(clips), http.StatusOK)
}

// ListMine обрабатывает GET /api/clips/my-clips
// Клипы текущего пользователя, новые первыми
func (h *ClipsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clips, err := h.clipStorage.ListClipsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list user clips", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, clipsResponse(clips), http.StatusOK)
}

// clipsResponse конвертирует модели в API представление
func clipsResponse(clips []*models.Clip) api.ClipsResponse {
	out := api.ClipsResponse{
		Success: true,
		Clips:   make([]api.Clip, 0, len(clips)),
	}

	for _, clip := range clips {
		out.Clips = append(out.Clips, api.Clip{
			ID:       clip.ID,
			VideoURL: clip.VideoURL,
			GeneratedBy: api.GeneratedBy{
				UserID:   clip.UserID,
				Username: clip.Username,
			},
			CreatedAt: clip.CreatedAt.Format(time.RFC3339),
		})
	}

	return out
}

package models

import "time"

// Clip представляет сгенерированный клип
// Создается только после успешного ответа AI сервиса, далее не мутируется
type Clip struct {
	ID        string    `json:"id"`        // UUID клипа
	VideoURL  string    `json:"video_url"` // URL готового видео на AI сервисе
	UserID    string    `json:"user_id"`   // ID автора
	Username  string    `json:"username"`  // username автора на момент генерации
	CreatedAt time.Time `json:"created_at"`
}

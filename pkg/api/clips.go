package api

// GenerateClipRequest представляет запрос на генерацию клипа
// Тело пересылается upstream AI сервису без изменений после валидации
type GenerateClipRequest struct {
	BackgroundVideo string `json:"background_video"` // один из: minecraft, subway_surfers, gta_v
	Topic           string `json:"topic"`            // тема клипа, 1-500 символов
}

// GenerateClipResponse представляет успешный ответ AI сервиса
// Используется клиентом; сервер пересылает тело ответа verbatim
type GenerateClipResponse struct {
	Status   string `json:"status"` // "success" | "error"
	VideoURL string `json:"video_url,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GeneratedBy представляет денормализованную ссылку на автора клипа
// Username фиксируется на момент генерации и не обновляется при переименовании
type GeneratedBy struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Clip представляет сохраненный клип
type Clip struct {
	ID          string      `json:"id"`
	VideoURL    string      `json:"videoUrl"`
	GeneratedBy GeneratedBy `json:"generatedBy"`
	CreatedAt   string      `json:"createdAt"` // RFC3339
}

// ClipsResponse представляет список сохраненных клипов
type ClipsResponse struct {
	Success bool   `json:"success"`
	Clips   []Clip `json:"clips"`
}

package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTopicLen максимальная длина темы клипа в символах
const MaxTopicLen = 500

// BackgroundVideos - фиксированный набор допустимых фоновых видео
// Должен совпадать с пресетами AI сервиса
var BackgroundVideos = []string{"minecraft", "subway_surfers", "gta_v"}

// ValidateBackgroundVideo проверяет, что фон входит в набор пресетов
func ValidateBackgroundVideo(background string) error {
	if background == "" {
		return fmt.Errorf("background_video is required")
	}

	for _, valid := range BackgroundVideos {
		if background == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid background_video, must be one of: %s", strings.Join(BackgroundVideos, ", "))
}

// ValidateTopic проверяет тему клипа
// Тема должна быть непустой после trim и не длиннее MaxTopicLen символов
func ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("topic is required")
	}

	if utf8.RuneCountInString(topic) > MaxTopicLen {
		return fmt.Errorf("topic must be between 1 and %d characters", MaxTopicLen)
	}

	return nil
}

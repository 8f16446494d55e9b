package mail

import "context"

// Mailer defines interface for outbound transactional email
// Реализация подменяется в тестах на фейк
type Mailer interface {
	// Send отправляет одно письмо. Ошибка отправки означает провал
	// всей операции, которая запросила письмо
	Send(ctx context.Context, to, subject, html string) error
}

package models

import "time"

// EmailMessage представляет готовое к отправке письмо: получателя, тему и
// оба представления тела. Сообщение в таком виде публикуется в очередь
// notifications и доставляется сервисом отправки.
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body,omitempty"`
}

// JobExecution представляет запись истории выполнения задания планировщика.
// Старые записи удаляются заданием очистки.
type JobExecution struct {
	ID         int64      // Уникальный идентификатор записи
	JobID      string     // Строковый идентификатор задания (weekly_digest и т.п.)
	StartedAt  time.Time  // Время запуска
	FinishedAt *time.Time // Время завершения (nil, если выполнение оборвалось)
	Status     string     // Статус: success или error
	Error      string     // Текст ошибки при неуспехе
}

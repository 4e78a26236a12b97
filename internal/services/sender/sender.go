// Package services содержит логику отправки писем: сообщения из очереди
// уведомлений превращаются в MIME-письма и уходят через SMTP.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// SenderService отправляет письма уведомлений через SMTP-транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	from      string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService. Адрес from
// используется в заголовке From, отправителем SMTP-сессии остаётся
// учётная запись транспорта.
func NewSenderService(transport smtp.TransportInterface, from string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		from:      from,
		log:       log,
	}
}

// SendEmailMessage разбирает сообщение очереди и отправляет письмо получателю.
func (s *SenderService) SendEmailMessage(body []byte) error {
	var message models.EmailMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.To == "" {
		return fmt.Errorf("message has no recipient")
	}
	return s.sendEmail(message)
}

// Разделитель multipart-частей письма. Содержимое писем не бинарное,
// фиксированное значение безопасно.
const mimeBoundary = "np-mail-boundary-7f3a9c"

func (s *SenderService) buildMessage(message models.EmailMessage) string {
	headers := []string{
		"From: " + s.from,
		"To: " + message.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", message.Subject),
		"MIME-Version: 1.0",
	}

	if message.HTMLBody == "" {
		return strings.Join(append(headers,
			"Content-Type: text/plain; charset=\"UTF-8\"",
			"",
			message.TextBody,
		), "\r\n")
	}

	// Текстовая и HTML-версии в одном письме, почтовый клиент выбирает сам.
	headers = append(headers,
		"Content-Type: multipart/alternative; boundary=\""+mimeBoundary+"\"",
		"",
		"--"+mimeBoundary,
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		message.TextBody,
		"",
		"--"+mimeBoundary,
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		message.HTMLBody,
		"",
		"--"+mimeBoundary+"--",
	)
	return strings.Join(headers, "\r\n")
}

func (s *SenderService) sendEmail(message models.EmailMessage) error {
	msg := s.buildMessage(message)

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}
	if err := client.Rcpt(message.To); err != nil {
		s.log.Error("failed to set RCPT TO", "recipient", message.To, sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.String("to", message.To))
	return nil
}

package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// EmailPublisher публикует готовые письма в очередь уведомлений.
// Реализует интерфейс Mailer сервисов рассылки.
type EmailPublisher struct {
	ch *amqp.Channel
}

// NewEmailPublisher создает новый экземпляр EmailPublisher.
func NewEmailPublisher(ch *amqp.Channel) *EmailPublisher {
	return &EmailPublisher{ch: ch}
}

// Send публикует письмо в обменник уведомлений.
func (p *EmailPublisher) Send(msg models.EmailMessage) error {
	return PublishMessage(p.ch, NotificationsExchange, EmailRoutingKey, msg)
}

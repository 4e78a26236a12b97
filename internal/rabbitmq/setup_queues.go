package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в exchange notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationsExchange — имя обменника уведомлений.
const NotificationsExchange = "notifications"

// Имена очереди и ключа маршрутизации исходящих писем.
const (
	EmailQueue      = "notifications.email"
	EmailRoutingKey = "email"
)

// GetNotificationQueues возвращает очереди, используемые сервисами портала.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: EmailQueue, RoutingKey: EmailRoutingKey},
	}
}

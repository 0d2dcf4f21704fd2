package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий уведомлений.
const (
	RoutingKeySuggestionApproved = "suggestion.approved"
	RoutingKeyRedemptionCreated  = "redemption.created"
)

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.suggestion_approved", RoutingKey: RoutingKeySuggestionApproved},
		{QueueName: "notifications.redemption_created", RoutingKey: RoutingKeyRedemptionCreated},
	}
}

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// notificationsTotal counts dispatched notifications by kind and result.
var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total dispatched email notifications by kind and result",
	},
	[]string{"kind", "result"}, // kind: new_post | weekly_digest, result: sent | error
)

// RecordNotification records a dispatched notification.
func RecordNotification(kind, result string) {
	notificationsTotal.WithLabelValues(kind, result).Inc()
}

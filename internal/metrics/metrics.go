package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Open realtime connections, identified or not.",
	})

	IdentifiedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_identified_users",
		Help: "Users currently registered in the presence registry.",
	})

	MessagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_delivered_total",
		Help: "Realtime messages pushed to a receiver's connection.",
	})

	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_dropped_total",
		Help: "Realtime messages dropped because the receiver was offline.",
	})

	PresenceBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_presence_broadcasts_total",
		Help: "Presence snapshot broadcasts sent to all connections.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendly_messages_sent_total",
		Help: "Total number of chat messages sent.",
	})

	ConversationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendly_conversations_created_total",
		Help: "Total number of conversations created.",
	})

	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendly_borrow_requests_created_total",
		Help: "Total number of borrow requests created, by kind.",
	}, []string{"kind"})

	RequestsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendly_borrow_requests_resolved_total",
		Help: "Total number of borrow requests resolved, by outcome.",
	}, []string{"status"})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lendly_websocket_connections",
		Help: "Number of currently open WebSocket connections.",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendly_rate_limited_total",
		Help: "Total number of actions rejected by the rate limiter.",
	}, []string{"action"})
)

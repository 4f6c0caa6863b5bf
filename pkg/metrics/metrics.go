package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RulesEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_rules_evaluated_total",
			Help: "Total number of rule evaluations, by trigger type",
		},
		[]string{"trigger"},
	)

	RulesMatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_rules_matched_total",
			Help: "Total number of rule matches, by trigger type",
		},
		[]string{"trigger"},
	)

	ActionsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_actions_executed_total",
			Help: "Total number of executed actions, by action type and outcome",
		},
		[]string{"action", "status"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_notifications_created_total",
			Help: "Total number of notifications created, by severity",
		},
		[]string{"severity"},
	)

	DueDateCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "automation_due_date_check_duration_seconds",
			Help:    "Duration of one due-date check tick",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

func IncrementRuleEvaluated(trigger string) {
	RulesEvaluated.WithLabelValues(trigger).Inc()
}

func IncrementRuleMatched(trigger string) {
	RulesMatched.WithLabelValues(trigger).Inc()
}

func IncrementActionExecuted(action, status string) {
	ActionsExecuted.WithLabelValues(action, status).Inc()
}

func IncrementNotificationCreated(severity string) {
	NotificationsCreated.WithLabelValues(severity).Inc()
}

func ObserveDueDateCheck(duration time.Duration) {
	DueDateCheckDuration.Observe(duration.Seconds())
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

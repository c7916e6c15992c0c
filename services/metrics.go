package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faculty_review_transitions_total",
			Help: "Review attempts by request kind, target status and outcome",
		},
		[]string{"kind", "status", "outcome"},
	)

	requestsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faculty_requests_created_total",
			Help: "Reviewable requests created by kind",
		},
		[]string{"kind"},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faculty_notification_failures_total",
			Help: "Notification side effects that failed, by channel",
		},
		[]string{"channel"},
	)
)

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return ErrorCode(err)
}

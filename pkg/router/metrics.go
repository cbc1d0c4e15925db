package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_requests_total",
		Help: "Requests handled by the intent router.",
	})

	clarificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_clarifications_total",
		Help: "Requests answered with a clarifying question.",
	})

	providerEscalationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_provider_escalations_total",
		Help: "Provider outcomes that asked the router to escalate.",
	}, []string{"provider"})

	fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_fallbacks_total",
		Help: "Requests that exhausted their candidates and used the generic fallback chain.",
	})
)

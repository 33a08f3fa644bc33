package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const agentSubsystem = "locale_agent"

var (
	TotalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "total_requests",
		Subsystem: agentSubsystem,
		Help:      "total number of http requests made to locale-agent",
	})
)

var (
	SetLocaleRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "total_set_locale_requests",
		Subsystem: agentSubsystem,
		Help:      "total number of requests to change the system locale",
	})
)

var (
	SetLocaleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "total_failed_set_locale_requests",
		Subsystem: agentSubsystem,
		Help:      "total number of failed requests to change the system locale",
	})
)

var (
	GenLocaleRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "total_gen_locale_requests",
		Subsystem: agentSubsystem,
		Help:      "total number of locale generation requests",
	})
)

var (
	GenLocaleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "total_failed_gen_locale_requests",
		Subsystem: agentSubsystem,
		Help:      "total number of failed locale generation requests",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convgate_events_received_total",
		Help: "Inbound webhook notifications, labelled by source family.",
	}, []string{"source"})

	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convgate_events_dispatched_total",
		Help: "Canonical events accepted by the attribution sink, labelled by event name.",
	}, []string{"event"})

	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convgate_events_rejected_total",
		Help: "Requests that produced no dispatched event, labelled by failure reason.",
	}, []string{"reason"})

	FallbackIdentifiers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convgate_fallback_identifiers_total",
		Help: "Events built with a random identifier because no stable one was present.",
	})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convgate_dispatch_duration_seconds",
		Help:    "Latency of the attribution sink call.",
		Buckets: prometheus.DefBuckets,
	})
)

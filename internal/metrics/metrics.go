// Package metrics exposes coordination counters through prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set holds the coordination counters. A nil *Set is a valid no-op sink,
// so callers never branch on whether metrics are enabled.
type Set struct {
	recomputes         prometheus.Counter
	publishes          prometheus.Counter
	subscriberFailures prometheus.Counter
	dispatches         *prometheus.CounterVec
}

// New builds the counter set and registers it on reg.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiesce_recomputes_total",
			Help: "Quiescence cache recomputations.",
		}),
		publishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiesce_publishes_total",
			Help: "Refresh events published to the broadcast channel.",
		}),
		subscriberFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiesce_subscriber_failures_total",
			Help: "Subscriber deliveries that returned an error or panicked.",
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiesce_dispatches_total",
			Help: "Actions executed by the deferred dispatcher, by mode.",
		}, []string{"mode"}),
	}
	reg.MustRegister(s.recomputes, s.publishes, s.subscriberFailures, s.dispatches)
	return s
}

// IncRecompute counts one quiescence recomputation.
func (s *Set) IncRecompute() {
	if s == nil {
		return
	}
	s.recomputes.Inc()
}

// IncPublish counts one published refresh event.
func (s *Set) IncPublish() {
	if s == nil {
		return
	}
	s.publishes.Inc()
}

// IncSubscriberFailure counts one failed subscriber delivery.
func (s *Set) IncSubscriberFailure() {
	if s == nil {
		return
	}
	s.subscriberFailures.Inc()
}

// IncDispatch counts one executed action, labelled inline or deferred.
func (s *Set) IncDispatch(inline bool) {
	if s == nil {
		return
	}
	mode := "deferred"
	if inline {
		mode = "inline"
	}
	s.dispatches.WithLabelValues(mode).Inc()
}

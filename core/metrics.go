package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the process-wide counters for the query API's /metrics
// endpoint. It subscribes to the event bus rather than being threaded
// through every handler call, matching how Broadcast already decouples
// observability from the transaction path.
type Metrics struct {
	Contributions *prometheus.CounterVec
	Payouts       *prometheus.CounterVec
	Refunds       *prometheus.CounterVec
	Disputes      *prometheus.CounterVec
}

// NewMetrics registers the counters against reg and subscribes them to the
// event bus. Call once at process startup.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Contributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcore",
			Name:      "contributions_total",
			Help:      "Total contributions accepted into task escrows.",
		}, nil),
		Payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcore",
			Name:      "payouts_total",
			Help:      "Total payouts executed from task escrows.",
		}, nil),
		Refunds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcore",
			Name:      "refunds_total",
			Help:      "Total refunds executed from task escrows.",
		}, []string{}),
		Disputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcore",
			Name:      "disputes_total",
			Help:      "Total disputes by outcome topic.",
		}, []string{"topic"}),
	}
	reg.MustRegister(m.Contributions, m.Payouts, m.Refunds, m.Disputes)

	Subscribe(func(ev Event) {
		switch ev.Topic {
		case TopicContributionMade:
			m.Contributions.WithLabelValues().Inc()
		case TopicPayoutExecuted:
			m.Payouts.WithLabelValues().Inc()
		case TopicRefundExecuted:
			m.Refunds.WithLabelValues().Inc()
		case TopicDisputeOpened, TopicDisputeResolved, TopicDisputeExpired:
			m.Disputes.WithLabelValues(ev.Topic).Inc()
		}
	})
	return m
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain event names.
const (
	EventUserRegistered  = "user_registered"
	EventStoreRegistered = "store_registered"
	EventLoginFailed     = "login_failed"
	EventOrderPlaced     = "order_placed"
	EventOrderCompleted  = "order_completed"
	EventMessageSent     = "message_sent"
	EventStoreFollowed   = "store_followed"
)

// EventRecorder counts marketplace events.
type EventRecorder interface {
	Record(event string)
}

// DomainMetrics is the prometheus backed EventRecorder.
type DomainMetrics struct {
	events *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shodix",
		Name:      "domain_events_total",
		Help:      "Marketplace events by name.",
	}, []string{"event"})
	reg.MustRegister(events)
	return &DomainMetrics{events: events}
}

func (m *DomainMetrics) Record(event string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(event)).Inc()
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(string) {}

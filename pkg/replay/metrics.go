package replay

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the replay server's prometheus collectors
type Metrics struct {
	Sessions prometheus.Counter
	Active   prometheus.Gauge
	Received *prometheus.CounterVec
	Sent     *prometheus.CounterVec
	Ignored  prometheus.Counter
	Reloads  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "sessions_total",
			Help:      "Websocket sessions accepted.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "sessions_active",
			Help:      "Websocket sessions currently open.",
		}),
		Received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "events_received_total",
			Help:      "Client events received, by event name.",
		}, []string{"event"}),
		Sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "events_sent_total",
			Help:      "Server events written, by event name.",
		}, []string{"event"}),
		Ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "empty_queries_total",
			Help:      "Chat messages dropped because the query was empty.",
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultchat",
			Subsystem: "replay",
			Name:      "script_reloads_total",
			Help:      "Script reload attempts, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Sessions, m.Active, m.Received, m.Sent, m.Ignored, m.Reloads)
	return m
}

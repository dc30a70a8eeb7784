package elf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts decode activity across sessions. A nil *Metrics is
// valid everywhere one is accepted and counts nothing.
type Metrics struct {
	opens        prometheus.Counter
	decodeErrors *prometheus.CounterVec
	payloadBytes prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		opens: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objio_elf_opens_total",
			Help: "Sessions opened with a validated file header.",
		}),
		decodeErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "objio_elf_decode_errors_total",
			Help: "Decode failures by stage.",
		}, []string{"stage"}),
		payloadBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "objio_elf_payload_bytes_total",
			Help: "Section payload bytes loaded into memory.",
		}),
	}
}

func (m *Metrics) open() {
	if m != nil {
		m.opens.Inc()
	}
}

func (m *Metrics) decodeError(stage string) {
	if m != nil {
		m.decodeErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) payload(n int) {
	if m != nil {
		m.payloadBytes.Add(float64(n))
	}
}

package aacenc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by encoder sessions.
// A nil *Metrics disables collection.
type Metrics struct {
	InputBytesTotal   prometheus.Counter
	PacketsTotal      prometheus.Counter
	OutputBytesTotal  prometheus.Counter
	BackpressureTotal *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	PacketSize        prometheus.Histogram
}

// NewMetrics creates the encoder collectors and registers them with reg.
// Sessions sharing one registry should share one Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InputBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aacenc_input_bytes_total",
			Help: "Total PCM bytes accepted by the transform",
		}),
		PacketsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aacenc_packets_total",
			Help: "Total AAC packets produced",
		}),
		OutputBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aacenc_output_bytes_total",
			Help: "Total AAC bytes produced",
		}),
		BackpressureTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aacenc_backpressure_total",
			Help: "Flow-control signals reported by the transform",
		}, []string{"signal"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aacenc_errors_total",
			Help: "Transform failures by operation",
		}, []string{"operation"}),
		PacketSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aacenc_packet_size_bytes",
			Help:    "Size of produced AAC packets in bytes",
			Buckets: []float64{64, 128, 256, 384, 512, 768, 1024, 1536},
		}),
	}
}

func (m *Metrics) observeInput(n int) {
	if m == nil {
		return
	}
	m.InputBytesTotal.Add(float64(n))
}

func (m *Metrics) observePacket(n int) {
	if m == nil {
		return
	}
	m.PacketsTotal.Inc()
	m.OutputBytesTotal.Add(float64(n))
	m.PacketSize.Observe(float64(n))
}

func (m *Metrics) observeBackpressure(s Status) {
	if m == nil {
		return
	}
	m.BackpressureTotal.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) observeError(op string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(op).Inc()
}

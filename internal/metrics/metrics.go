package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 驱动业务指标
type AppMetrics struct {
	BytesReceived   prometheus.Counter
	FramesRouted    *prometheus.CounterVec // labels: type
	FrameDecodeErrs *prometheus.CounterVec // labels: type
	UnknownFrames   prometheus.Counter
	CommandsSent    *prometheus.CounterVec // labels: mode=async|sync
	CommandsDropped prometheus.Counter
	SyncTimeouts    prometheus.Counter
	PropertyUpdates prometheus.Counter
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_received_total",
			Help: "Total bytes received over the serial line.",
		}),
		FramesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_route_total",
			Help: "Routed frames by frame type.",
		}, []string{"type"}),
		FrameDecodeErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_decode_error_total",
			Help: "Frame decode failures by frame type.",
		}, []string{"type"}),
		UnknownFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frame_unknown_total",
			Help: "Frames discarded because of an unknown type tag.",
		}),
		CommandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "command_sent_total",
			Help: "Outbound commands by execution mode.",
		}, []string{"mode"}),
		CommandsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "command_dropped_total",
			Help: "Commands dropped because the transport was not writable.",
		}),
		SyncTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "command_sync_timeout_total",
			Help: "Synchronous commands that saw no response within the read window.",
		}),
		PropertyUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "property_update_total",
			Help: "Addressing property updates applied to the state store.",
		}),
	}
	reg.MustRegister(m.BytesReceived, m.FramesRouted, m.FrameDecodeErrs, m.UnknownFrames,
		m.CommandsSent, m.CommandsDropped, m.SyncTimeouts, m.PropertyUpdates)
	return m
}

// Package telemetry exposes transmitter counters through Prometheus.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FramesSent counts frames successfully injected.
	FramesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctx",
			Name:      "frames_sent_total",
			Help:      "Total number of frames successfully injected",
		},
		[]string{"interface"},
	)

	// FramesFailed counts frames that failed to inject.
	FramesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctx",
			Name:      "frames_failed_total",
			Help:      "Total number of frame injection failures",
		},
		[]string{"interface"},
	)

	// BytesSent counts bytes successfully injected, headers included.
	BytesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctx",
			Name:      "bytes_sent_total",
			Help:      "Total bytes successfully injected, headers included",
		},
		[]string{"interface"},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent, safe to call more than once.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(FramesSent)
		prometheus.DefaultRegisterer.Register(FramesFailed)
		prometheus.DefaultRegisterer.Register(BytesSent)
	})
}

// Serve exposes /metrics on addr. Blocks; run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

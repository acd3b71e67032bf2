package instrumentation

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the Prometheus /metrics endpoint on a dedicated
// listener, keeping scrape traffic off the main application port.
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer creates a metrics server bound to addr.
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (m *MetricsServer) Addr() string {
	return m.server.Addr
}

// Start blocks serving metrics until the listener fails or is shut down.
func (m *MetricsServer) Start() error {
	return m.server.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.server.Shutdown(ctx)
}

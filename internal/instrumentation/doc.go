// Package instrumentation provides observability for the MCP OpenWeather
// server.
//
// It covers two concerns:
//
// Metrics: Prometheus counters and histograms for MCP tool invocations
// and OpenWeatherMap API requests, served by a dedicated metrics listener
// so scrape traffic stays off the application port. Metrics are cheap and
// always recorded; the listener is opt-in via METRICS_ENABLED.
//
// Tracing: OpenTelemetry spans around tool invocations and upstream API
// requests, exported over OTLP/HTTP. Disabled by default; enable with
// TRACING_EXPORTER=otlp and point OTEL_EXPORTER_OTLP_ENDPOINT at a
// collector.
package instrumentation

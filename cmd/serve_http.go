package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/weathertools/mcp-openweather/internal/instrumentation"
	"github.com/weathertools/mcp-openweather/internal/server"
	"github.com/weathertools/mcp-openweather/internal/tools/weather"
)

// runStreamableHTTPServer runs the server with Streamable HTTP transport.
// Besides the MCP endpoint the mux carries the REST routes of the
// original service surface and the health probes.
func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, client *weather.Client, sc *server.ServerContext, addr, endpoint string, instrConfig instrumentation.Config) error {
	mux := http.NewServeMux()

	// MCP endpoint
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(endpoint),
	)
	mux.Handle(endpoint, mcpHandler)

	// REST compatibility routes
	weather.RegisterHTTPHandlers(mux, client, sc)

	// Health probes
	healthChecker := server.NewHealthChecker(sc, rootCmd.Version)
	healthChecker.RegisterHealthEndpoints(mux)

	sc.Logger().Info("Streamable HTTP server starting",
		"addr", addr,
		"mcp_endpoint", endpoint,
		"rest_endpoints", []string{"/get_current_weather", "/get_weather_alerts"},
		"health_endpoints", []string{"/healthz", "/readyz"})

	handler := instrumentation.HTTPMetrics([]string{
		endpoint,
		"/get_current_weather",
		"/get_weather_alerts",
		"/healthz",
		"/readyz",
	})(mux)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	var metricsServer *instrumentation.MetricsServer
	if instrConfig.MetricsEnabled {
		metricsServer = instrumentation.NewMetricsServer(instrConfig.MetricsAddr)
		sc.Logger().Info("Metrics server starting", "addr", metricsServer.Addr(), "endpoint", "/metrics")

		g.Go(func() error {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server stopped with error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sc.Logger().Info("Shutdown signal received, stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				sc.Logger().Error("Error shutting down metrics server", "error", err)
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	sc.Logger().Info("HTTP server gracefully stopped")
	return nil
}

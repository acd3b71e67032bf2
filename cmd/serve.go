package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/weathertools/mcp-openweather/internal/instrumentation"
	"github.com/weathertools/mcp-openweather/internal/server"
	"github.com/weathertools/mcp-openweather/internal/tools/weather"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		debugMode bool

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Metrics options
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP OpenWeather server",
		Long: `Start the MCP OpenWeather server to provide current weather conditions
and weather alerts via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

With the streamable-http transport the server also mounts the REST
routes of the original service surface (POST /get_current_weather and
POST /get_weather_alerts) together with /healthz and /readyz probes.

Environment Variables:
  OPENWEATHER_API_KEY  - Required: OpenWeatherMap API key
  OPENWEATHER_BASE_URL - Optional: upstream base URL override
  OPENWEATHER_UNITS    - Optional: unit system (metric, imperial, standard)

A .env file in the working directory is loaded before the environment
is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(transport, debugMode,
				httpAddr, sseEndpoint, messageEndpoint, httpEndpoint,
				metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (default: false)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":3005", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics", false, "Enable the dedicated Prometheus metrics listener")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listener address (default from METRICS_ADDR, else :9090)")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(transport string, debugMode bool,
	httpAddr, sseEndpoint, messageEndpoint, httpEndpoint string,
	metricsEnabled bool, metricsAddr string) error {

	// Load a .env file if one exists; the environment wins on conflicts.
	_ = godotenv.Load()

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newCharmLogger(debugMode)

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithDebugMode(debugMode),
		server.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("Error during server context shutdown", "error", err)
		}
	}()

	config := serverContext.WeatherConfig()
	if config.APIKey == "" {
		return fmt.Errorf("OpenWeather API key not found: set OPENWEATHER_API_KEY in the environment or a .env file")
	}

	logger.Info("OpenWeatherMap configuration",
		"baseURL", config.BaseURL,
		"units", config.Units)

	// Setup tracing
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = rootCmd.Version
	if metricsEnabled {
		instrConfig.MetricsEnabled = true
	}
	if metricsAddr != "" {
		instrConfig.MetricsAddr = metricsAddr
	}

	tracingShutdown, err := instrumentation.SetupTracing(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := tracingShutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracing", "error", err)
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("mcp-openweather", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register weather tools; the client is shared with the REST routes.
	client := weather.NewClient(config, logger)
	if err := weather.RegisterWeatherTools(mcpSrv, client, serverContext); err != nil {
		return fmt.Errorf("failed to register weather tools: %w", err)
	}

	logger.Info("Starting MCP OpenWeather server", "transport", transport)

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv, logger)
	case "sse":
		return runSSEServer(shutdownCtx, mcpSrv, serverContext, httpAddr, sseEndpoint, messageEndpoint)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, client, serverContext, httpAddr, httpEndpoint, instrConfig)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", transport)
	}
}

// Package server provides the core server infrastructure for the MCP
// OpenWeather server.
//
// This package contains:
// - ServerContext: Configuration and shared resources management
// - Logger interface: Structured logging abstraction
// - HealthChecker: liveness and readiness handlers for HTTP transports
//
// The ServerContext manages the lifecycle of the server and provides
// thread-safe access to configuration options such as:
// - Debug mode toggle
// - OpenWeatherMap upstream settings (API key, base URL, unit system)
//
// Example usage:
//
//	ctx := context.Background()
//	serverContext, err := server.NewServerContext(ctx,
//	    server.WithDebugMode(true),
//	    server.WithLogger(logger),
//	)
package server

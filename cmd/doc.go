// Package cmd provides the command-line interface for the MCP OpenWeather server.
//
// This package implements the Cobra CLI framework to provide commands for:
// - Starting the MCP server with various transport options (stdio, sse, http)
// - Managing server configuration and lifecycle
//
// The main entry point is the serve command which starts the MCP server,
// registers the weather tools, and on HTTP transports also mounts the
// compatibility REST routes and health endpoints.
//
// Environment Variables:
//   - OPENWEATHER_API_KEY: Required OpenWeatherMap API key
//   - OPENWEATHER_BASE_URL: Optional upstream base URL override
//   - OPENWEATHER_UNITS: Optional unit system (metric, imperial, standard)
//
// A .env file in the working directory is loaded before the environment
// is read, matching how the service has historically been configured.
//
// Example usage:
//
//	mcp-openweather serve --transport stdio
//	mcp-openweather serve --transport streamable-http --http-addr :3005
package cmd

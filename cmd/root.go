package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-openweather",
	Short: "MCP server for OpenWeatherMap data",
	Long: `mcp-openweather is a Model Context Protocol (MCP) server that provides
access to current weather conditions and weather alerts through
standardized MCP interfaces.

This allows AI assistants to look up live conditions and active
government weather alerts for any location known to OpenWeatherMap.

The same operations are also exposed as plain HTTP JSON routes when
the server runs with the streamable HTTP transport, so existing REST
clients can keep calling POST /get_current_weather and
POST /get_weather_alerts.

The server is configured through environment variables; a .env file in
the working directory is loaded automatically if present.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version for the root command
func SetVersion(version string) {
	rootCmd.Version = version
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

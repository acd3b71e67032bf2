package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/weathertools/mcp-openweather/internal/instrumentation"
	"github.com/weathertools/mcp-openweather/internal/server"
)

// RegisterWeatherTools registers the weather tools with the MCP server.
func RegisterWeatherTools(s *mcpserver.MCPServer, client *Client, sc *server.ServerContext) error {
	// get_current_weather tool
	currentWeatherTool := mcp.NewTool("get_current_weather",
		mcp.WithDescription("Get current weather conditions for a location"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("City name, optionally with country code (e.g. 'London' or 'London,GB')"),
		),
	)

	s.AddTool(currentWeatherTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCurrentWeather(ctx, request, client, sc)
	})

	// get_weather_alerts tool
	weatherAlertsTool := mcp.NewTool("get_weather_alerts",
		mcp.WithDescription("Get active weather alerts for a location"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("City name, optionally with country code (e.g. 'Miami' or 'Miami,US')"),
		),
	)

	s.AddTool(weatherAlertsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleWeatherAlerts(ctx, request, client, sc)
	})

	return nil
}

// locationFromRequest extracts the required location argument.
func locationFromRequest(request mcp.CallToolRequest) (string, bool) {
	params := make(map[string]interface{})
	if request.Params.Arguments != nil {
		if argsMap, ok := request.Params.Arguments.(map[string]interface{}); ok {
			params = argsMap
		}
	}

	location, ok := params["location"].(string)
	if !ok || location == "" {
		return "", false
	}
	return location, true
}

// errorResult builds an IsError tool result with the given message.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// jsonResult marshals v into a text tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

// handleCurrentWeather handles the get_current_weather tool
func handleCurrentWeather(ctx context.Context, request mcp.CallToolRequest, client *Client, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	location, ok := locationFromRequest(request)
	if !ok {
		return errorResult("Error: location parameter is required and must be a string"), nil
	}

	sc.Logger().Debug("Fetching current weather", "location", location)

	ctx, span := instrumentation.StartToolSpan(ctx, "get_current_weather")
	defer span.End()

	start := time.Now()
	report, err := client.CurrentConditions(ctx, location)
	instrumentation.RecordToolCall("get_current_weather", err, time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		sc.Logger().Error("Failed to fetch current weather", "location", location, "error", err)
		return errorResult(fmt.Sprintf("Error fetching current weather: %v", err)), nil
	}

	instrumentation.SetSpanSuccess(span)
	return jsonResult(report)
}

// handleWeatherAlerts handles the get_weather_alerts tool
func handleWeatherAlerts(ctx context.Context, request mcp.CallToolRequest, client *Client, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	location, ok := locationFromRequest(request)
	if !ok {
		return errorResult("Error: location parameter is required and must be a string"), nil
	}

	sc.Logger().Debug("Fetching weather alerts", "location", location)

	ctx, span := instrumentation.StartToolSpan(ctx, "get_weather_alerts")
	defer span.End()

	start := time.Now()
	report, err := client.ActiveAlerts(ctx, location)
	instrumentation.RecordToolCall("get_weather_alerts", err, time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		sc.Logger().Error("Failed to fetch weather alerts", "location", location, "error", err)
		return errorResult(fmt.Sprintf("Error fetching weather alerts: %v", err)), nil
	}

	instrumentation.SetSpanSuccess(span)
	return jsonResult(report)
}

// Package weather provides MCP tools for the OpenWeatherMap API.
//
// This package implements the following MCP tools:
//
//   - get_current_weather: Current conditions for a location
//   - get_weather_alerts: Active weather alerts for a location
//
// Alert lookups resolve the location to coordinates through the current
// weather endpoint first, then read the alerts section of the One Call
// endpoint.
//
// The same two operations are also exposed as plain HTTP JSON routes
// (POST /get_current_weather, POST /get_weather_alerts) for clients of
// the original REST surface when the server runs the streamable HTTP
// transport; see RegisterHTTPHandlers.
//
// Example tool usage:
//
//	get_current_weather: {"location": "London"}
//	get_weather_alerts: {"location": "Miami,US"}
package weather

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weathertools/mcp-openweather/internal/instrumentation"
	"github.com/weathertools/mcp-openweather/internal/server"
)

const (
	currentWeatherPath = "/data/2.5/weather"
	oneCallPath        = "/data/2.5/onecall"

	// reportTimeLayout matches the timestamp format the service has
	// always returned for observation and alert times.
	reportTimeLayout = "2006-01-02 15:04:05"

	defaultRequestTimeout = 30 * time.Second
)

// Client talks to the OpenWeatherMap HTTP API.
type Client struct {
	httpClient *http.Client
	config     server.WeatherConfig
	logger     server.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(config server.WeatherConfig, logger server.Logger) *Client {
	logger.Debug("Creating new OpenWeatherMap client", "baseURL", config.BaseURL, "units", config.Units)

	return &Client{
		httpClient: &http.Client{},
		config:     config,
		logger:     logger,
	}
}

// ConditionsReport is the formatted current-weather payload.
type ConditionsReport struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Conditions  string `json:"conditions"`
	Updated     string `json:"updated"`
}

// Alert is one formatted weather alert.
type Alert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// AlertsReport is the formatted weather-alerts payload.
type AlertsReport struct {
	Location string  `json:"location"`
	Status   string  `json:"status"`
	Alerts   []Alert `json:"alerts"`
}

// currentWeatherResponse mirrors the fields of the OpenWeatherMap
// current weather endpoint that the service consumes.
type currentWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// oneCallResponse carries the alerts section of the One Call endpoint.
type oneCallResponse struct {
	Alerts []struct {
		Event       string `json:"event"`
		Description string `json:"description"`
		Start       int64  `json:"start"`
		End         int64  `json:"end"`
	} `json:"alerts"`
}

// CurrentConditions fetches and formats current weather for a location.
func (c *Client) CurrentConditions(ctx context.Context, location string) (*ConditionsReport, error) {
	data, err := c.fetchCurrent(ctx, location)
	if err != nil {
		return nil, err
	}

	conditions := ""
	if len(data.Weather) > 0 {
		conditions = data.Weather[0].Description
	}

	return &ConditionsReport{
		Location:    fmt.Sprintf("%s, %s", data.Name, data.Sys.Country),
		Temperature: formatReading(data.Main.Temp) + temperatureUnit(c.config.Units),
		FeelsLike:   formatReading(data.Main.FeelsLike) + temperatureUnit(c.config.Units),
		Humidity:    fmt.Sprintf("%d%%", data.Main.Humidity),
		WindSpeed:   formatReading(data.Wind.Speed) + " " + windUnit(c.config.Units),
		Conditions:  conditions,
		Updated:     time.Unix(data.Dt, 0).Format(reportTimeLayout),
	}, nil
}

// ActiveAlerts fetches and formats active weather alerts for a location.
// The location is resolved to coordinates through the current weather
// endpoint first, then alerts are read from the One Call endpoint.
func (c *Client) ActiveAlerts(ctx context.Context, location string) (*AlertsReport, error) {
	data, err := c.fetchCurrent(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch alerts for %s: %w", location, err)
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%v", data.Coord.Lat))
	params.Set("lon", fmt.Sprintf("%v", data.Coord.Lon))
	params.Set("exclude", "current,minutely,hourly,daily")
	params.Set("appid", c.config.APIKey)

	var oneCall oneCallResponse
	if err := c.get(ctx, "onecall", oneCallPath, params, location, &oneCall); err != nil {
		return nil, fmt.Errorf("unable to fetch alerts for %s: %w", location, err)
	}

	report := &AlertsReport{
		Location: location,
		Alerts:   []Alert{},
	}

	if len(oneCall.Alerts) == 0 {
		report.Status = "No active weather alerts for this location"
		return report, nil
	}

	report.Status = fmt.Sprintf("%d active weather alert(s) found", len(oneCall.Alerts))
	for _, a := range oneCall.Alerts {
		report.Alerts = append(report.Alerts, Alert{
			Event:       a.Event,
			Description: a.Description,
			Start:       time.Unix(a.Start, 0).Format(reportTimeLayout),
			End:         time.Unix(a.End, 0).Format(reportTimeLayout),
		})
	}

	return report, nil
}

// fetchCurrent queries the current weather endpoint for a location.
func (c *Client) fetchCurrent(ctx context.Context, location string) (*currentWeatherResponse, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.config.APIKey)
	params.Set("units", c.config.Units)

	var data currentWeatherResponse
	if err := c.get(ctx, "weather", currentWeatherPath, params, location, &data); err != nil {
		return nil, fmt.Errorf("unable to fetch weather for %s: %w", location, err)
	}

	return &data, nil
}

// get performs one upstream request and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, location string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	ctx, span := instrumentation.StartUpstreamSpan(ctx, endpoint, location)
	defer span.End()

	reqURL := c.config.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		instrumentation.RecordUpstreamRequest(endpoint, 0, time.Since(start))
		instrumentation.SetSpanError(span, err)
		c.logger.Error("OpenWeatherMap request failed", "endpoint", endpoint, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	instrumentation.RecordUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(body))
		instrumentation.SetSpanError(span, err)
		c.logger.Error("OpenWeatherMap returned error", "endpoint", endpoint, "status", resp.StatusCode)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		instrumentation.SetSpanError(span, err)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	instrumentation.SetSpanSuccess(span)
	return nil
}

// temperatureUnit maps an OpenWeatherMap unit system to its temperature symbol.
// formatReading renders a numeric reading with its shortest decimal
// form, keeping a trailing ".0" on whole values so "21.0°C" stays
// "21.0°C".
func formatReading(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func temperatureUnit(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "standard":
		return "K"
	default:
		return "°C"
	}
}

// windUnit maps an OpenWeatherMap unit system to its wind speed unit.
func windUnit(units string) string {
	if units == "imperial" {
		return "mph"
	}
	return "m/s"
}

package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathertools/mcp-openweather/internal/server"
)

const currentWeatherFixture = `{
	"coord": {"lat": 51.5085, "lon": -0.1257},
	"weather": [{"description": "light rain"}],
	"main": {"temp": 21.5, "feels_like": 19.8, "humidity": 64},
	"wind": {"speed": 3.6},
	"dt": 1700000000,
	"sys": {"country": "GB"},
	"name": "London"
}`

// TestLogger implements server.Logger for testing
type TestLogger struct{}

func (l *TestLogger) Debug(msg string, args ...interface{}) {}
func (l *TestLogger) Info(msg string, args ...interface{})  {}
func (l *TestLogger) Warn(msg string, args ...interface{})  {}
func (l *TestLogger) Error(msg string, args ...interface{}) {}

func newTestClient(baseURL string) *Client {
	return NewClient(server.WeatherConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Units:   "metric",
	}, &TestLogger{})
}

func TestCurrentConditions(t *testing.T) {
	var gotQuery url.Values

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, currentWeatherPath, r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentWeatherFixture))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	report, err := client.CurrentConditions(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "London", gotQuery.Get("q"))
	assert.Equal(t, "test-key", gotQuery.Get("appid"))
	assert.Equal(t, "metric", gotQuery.Get("units"))

	assert.Equal(t, "London, GB", report.Location)
	assert.Equal(t, "21.5°C", report.Temperature)
	assert.Equal(t, "19.8°C", report.FeelsLike)
	assert.Equal(t, "64%", report.Humidity)
	assert.Equal(t, "3.6 m/s", report.WindSpeed)
	assert.Equal(t, "light rain", report.Conditions)
	assert.Equal(t, time.Unix(1700000000, 0).Format(reportTimeLayout), report.Updated)
}

func TestCurrentConditionsUpstreamError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	_, err := client.CurrentConditions(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to fetch weather for Atlantis")
	assert.Contains(t, err.Error(), "404")
}

func TestCurrentConditionsMalformedResponse(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Lon`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	_, err := client.CurrentConditions(context.Background(), "London")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to fetch weather for London")
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestCurrentConditionsNoWeatherEntries(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Nowhere", "sys": {"country": "XX"}, "main": {}, "wind": {}, "weather": [], "dt": 0}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	report, err := client.CurrentConditions(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Equal(t, "", report.Conditions)
}

func TestActiveAlertsNone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(currentWeatherPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentWeatherFixture))
	})
	mux.HandleFunc(oneCallPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lat": 51.5085, "lon": -0.1257}`))
	})

	mockServer := httptest.NewServer(mux)
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	report, err := client.ActiveAlerts(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "London", report.Location)
	assert.Equal(t, "No active weather alerts for this location", report.Status)
	assert.Empty(t, report.Alerts)
}

func TestActiveAlertsFound(t *testing.T) {
	var gotQuery url.Values

	mux := http.NewServeMux()
	mux.HandleFunc(currentWeatherPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentWeatherFixture))
	})
	mux.HandleFunc(oneCallPath, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"alerts": [
				{"event": "Flood Warning", "description": "River levels rising", "start": 1700000000, "end": 1700086400},
				{"event": "Wind Advisory", "description": "Gusts up to 80 km/h", "start": 1700010000, "end": 1700050000}
			]
		}`))
	})

	mockServer := httptest.NewServer(mux)
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	report, err := client.ActiveAlerts(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "51.5085", gotQuery.Get("lat"))
	assert.Equal(t, "-0.1257", gotQuery.Get("lon"))
	assert.Equal(t, "current,minutely,hourly,daily", gotQuery.Get("exclude"))
	assert.Equal(t, "test-key", gotQuery.Get("appid"))

	assert.Equal(t, "2 active weather alert(s) found", report.Status)
	require.Len(t, report.Alerts, 2)
	assert.Equal(t, "Flood Warning", report.Alerts[0].Event)
	assert.Equal(t, "River levels rising", report.Alerts[0].Description)
	assert.Equal(t, time.Unix(1700000000, 0).Format(reportTimeLayout), report.Alerts[0].Start)
	assert.Equal(t, time.Unix(1700086400, 0).Format(reportTimeLayout), report.Alerts[0].End)
	assert.Equal(t, "Wind Advisory", report.Alerts[1].Event)
}

func TestActiveAlertsResolveError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "internal error"}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	_, err := client.ActiveAlerts(context.Background(), "London")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to fetch alerts for London")
}

func TestUnitFormatting(t *testing.T) {
	tests := []struct {
		units    string
		tempUnit string
		windUnit string
	}{
		{"metric", "°C", "m/s"},
		{"imperial", "°F", "mph"},
		{"standard", "K", "m/s"},
		{"", "°C", "m/s"},
	}

	for _, tt := range tests {
		t.Run(tt.units, func(t *testing.T) {
			assert.Equal(t, tt.tempUnit, temperatureUnit(tt.units))
			assert.Equal(t, tt.windUnit, windUnit(tt.units))
		})
	}
}

func TestFormatReading(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{21.5, "21.5"},
		{21.0, "21.0"},
		{0, "0.0"},
		{-3.25, "-3.25"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatReading(tt.value))
		})
	}
}

func TestCurrentConditionsWholeValueReadings(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Oslo", "sys": {"country": "NO"}, "coord": {"lat": 59.9127, "lon": 10.7461}, "main": {"temp": 21.0, "feels_like": 20.0, "humidity": 50}, "wind": {"speed": 4.0}, "weather": [{"description": "clear sky"}], "dt": 1700000000}`))
	}))
	defer mockServer.Close()

	client := newTestClient(mockServer.URL)

	report, err := client.CurrentConditions(context.Background(), "Oslo")
	require.NoError(t, err)

	assert.Equal(t, "21.0°C", report.Temperature)
	assert.Equal(t, "20.0°C", report.FeelsLike)
	assert.Equal(t, "4.0 m/s", report.WindSpeed)
}

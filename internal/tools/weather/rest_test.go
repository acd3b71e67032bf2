package weather

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRESTServer(t *testing.T, upstream http.Handler) *httptest.Server {
	t.Helper()

	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	sc := newTestServerContext(t)
	client := newTestClient(upstreamServer.URL)

	mux := http.NewServeMux()
	RegisterHTTPHandlers(mux, client, sc)

	restServer := httptest.NewServer(mux)
	t.Cleanup(restServer.Close)

	return restServer
}

func TestRESTCurrentWeather(t *testing.T) {
	restServer := newRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentWeatherFixture))
	}))

	resp, err := http.Post(restServer.URL+"/get_current_weather", "application/json",
		strings.NewReader(`{"location": "London"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report ConditionsReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "London, GB", report.Location)
	assert.Equal(t, "21.5°C", report.Temperature)
	assert.Equal(t, "light rain", report.Conditions)
}

func TestRESTWeatherAlerts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(currentWeatherPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(currentWeatherFixture))
	})
	mux.HandleFunc(oneCallPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lat": 51.5085, "lon": -0.1257}`))
	})

	restServer := newRESTServer(t, mux)

	resp, err := http.Post(restServer.URL+"/get_weather_alerts", "application/json",
		strings.NewReader(`{"location": "London"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report AlertsReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "London", report.Location)
	assert.Equal(t, "No active weather alerts for this location", report.Status)
	assert.Empty(t, report.Alerts)
}

func TestRESTBadRequests(t *testing.T) {
	restServer := newRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for bad requests")
	}))

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid body", http.MethodPost, "{not json", http.StatusBadRequest},
		{"missing location", http.MethodPost, `{}`, http.StatusBadRequest},
		{"empty location", http.MethodPost, `{"location": ""}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, restServer.URL+"/get_current_weather",
				strings.NewReader(tt.body))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRESTUpstreamFailure(t *testing.T) {
	restServer := newRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "upstream down"}`))
	}))

	resp, err := http.Post(restServer.URL+"/get_current_weather", "application/json",
		strings.NewReader(`{"location": "London"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "unable to fetch weather for London")
}

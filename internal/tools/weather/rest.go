package weather

import (
	"encoding/json"
	"net/http"

	"github.com/weathertools/mcp-openweather/internal/server"
)

// locationRequest is the request body of the REST routes.
type locationRequest struct {
	Location string `json:"location"`
}

// errorResponse is the body returned on handler failure.
type errorResponse struct {
	Error string `json:"error"`
}

// RegisterHTTPHandlers mounts the REST routes of the original service
// surface on mux: POST /get_current_weather and POST /get_weather_alerts,
// both taking {"location": "..."} and answering with the same payloads as
// the corresponding MCP tools.
func RegisterHTTPHandlers(mux *http.ServeMux, client *Client, sc *server.ServerContext) {
	mux.HandleFunc("/get_current_weather", func(w http.ResponseWriter, r *http.Request) {
		location, ok := decodeLocation(w, r)
		if !ok {
			return
		}

		sc.Logger().Debug("REST current weather request", "location", location)

		report, err := client.CurrentConditions(r.Context(), location)
		if err != nil {
			sc.Logger().Error("REST current weather failed", "location", location, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, report)
	})

	mux.HandleFunc("/get_weather_alerts", func(w http.ResponseWriter, r *http.Request) {
		location, ok := decodeLocation(w, r)
		if !ok {
			return
		}

		sc.Logger().Debug("REST weather alerts request", "location", location)

		report, err := client.ActiveAlerts(r.Context(), location)
		if err != nil {
			sc.Logger().Error("REST weather alerts failed", "location", location, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}

// decodeLocation validates the method and request body. It writes the
// error response itself and returns ok=false when the request is bad.
func decodeLocation(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return "", false
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return "", false
	}
	if req.Location == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "location is required"})
		return "", false
	}

	return req.Location, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

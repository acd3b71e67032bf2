package server

import (
	"context"
	"os"
	"sync"
	"time"
)

// DefaultShutdownTimeout bounds graceful shutdown of the HTTP listeners.
const DefaultShutdownTimeout = 30 * time.Second

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// WeatherConfig holds the OpenWeatherMap upstream configuration
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Units   string
}

// ServerContext holds the server configuration and shared resources
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	mutex  sync.RWMutex

	// Configuration
	debugMode bool
	logger    Logger

	// Upstream configuration
	weatherConfig WeatherConfig
}

// ServerOption is a functional option for configuring ServerContext
type ServerOption func(*ServerContext)

// WithDebugMode sets whether debug logging is enabled
func WithDebugMode(enabled bool) ServerOption {
	return func(sc *ServerContext) {
		sc.debugMode = enabled
	}
}

// WithLogger sets the logger for the server context
func WithLogger(logger Logger) ServerOption {
	return func(sc *ServerContext) {
		sc.logger = logger
	}
}

// WithWeatherConfig sets the OpenWeatherMap configuration
func WithWeatherConfig(config WeatherConfig) ServerOption {
	return func(sc *ServerContext) {
		sc.weatherConfig = config
	}
}

// NewServerContext creates a new server context with the given options
func NewServerContext(ctx context.Context, opts ...ServerOption) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
	}

	// Apply options
	for _, opt := range opts {
		opt(sc)
	}

	// Set default logger if none provided
	if sc.logger == nil {
		sc.logger = &noopLogger{}
	}

	// Load upstream configuration from environment if not provided
	if sc.weatherConfig.APIKey == "" {
		sc.weatherConfig = WeatherConfig{
			APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
			BaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
			Units:   os.Getenv("OPENWEATHER_UNITS"),
		}
	}
	if sc.weatherConfig.BaseURL == "" {
		sc.weatherConfig.BaseURL = "https://api.openweathermap.org"
	}
	if sc.weatherConfig.Units == "" {
		sc.weatherConfig.Units = "metric"
	}

	return sc, nil
}

// Context returns the context associated with the server
func (sc *ServerContext) Context() context.Context {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.ctx
}

// IsDebugMode returns whether debug logging is enabled
func (sc *ServerContext) IsDebugMode() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.debugMode
}

// Logger returns the configured logger
func (sc *ServerContext) Logger() Logger {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.logger
}

// WeatherConfig returns the OpenWeatherMap configuration
func (sc *ServerContext) WeatherConfig() WeatherConfig {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.weatherConfig
}

// SetDebugMode dynamically sets whether debug logging is enabled
func (sc *ServerContext) SetDebugMode(enabled bool) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.debugMode = enabled
}

// IsShutdown reports whether the server context has been shut down
func (sc *ServerContext) IsShutdown() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.cancel == nil
}

// Shutdown gracefully shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.cancel != nil {
		sc.cancel()
		sc.cancel = nil
	}

	return nil
}

// noopLogger is a logger that does nothing
type noopLogger struct{}

func (l *noopLogger) Debug(msg string, args ...interface{}) {}
func (l *noopLogger) Info(msg string, args ...interface{})  {}
func (l *noopLogger) Warn(msg string, args ...interface{})  {}
func (l *noopLogger) Error(msg string, args ...interface{}) {}

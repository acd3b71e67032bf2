package cmd

import (
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/weathertools/mcp-openweather/internal/server"
)

// charmLogger adapts charmbracelet/log to the server.Logger interface.
type charmLogger struct {
	l *charmlog.Logger
}

// newCharmLogger creates a leveled logger writing to stderr, keeping
// stdout free for the stdio transport.
func newCharmLogger(debug bool) server.Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}

	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "mcp-openweather",
	})

	return &charmLogger{l: l}
}

func (c *charmLogger) Debug(msg string, args ...interface{}) {
	c.l.Debug(msg, args...)
}

func (c *charmLogger) Info(msg string, args ...interface{}) {
	c.l.Info(msg, args...)
}

func (c *charmLogger) Warn(msg string, args ...interface{}) {
	c.l.Warn(msg, args...)
}

func (c *charmLogger) Error(msg string, args ...interface{}) {
	c.l.Error(msg, args...)
}

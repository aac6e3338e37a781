// Package logging builds the console's logrus logger and the Echo
// middleware that writes one structured line per request.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout.  Unknown levels fall back to
// info; format "json" selects the JSON formatter, anything else text.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// RequestLogger logs method, path, status and latency of every request.
// Server errors are logged at error level, client errors at warn.
func RequestLogger(l logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := l.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"ip":      v.RemoteIP,
			})
			if uid, ok := c.Get("user_id").(string); ok && uid != "" {
				entry = entry.WithField("user_id", uid)
			}
			switch {
			case v.Error != nil || v.Status >= 500:
				entry.WithError(v.Error).Error("request")
			case v.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}

package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("nonsense", "text").GetLevel())
	_, isJSON := New("info", "JSON").Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", "json")
	l.SetOutput(&buf)

	e := echo.New()
	e.Use(RequestLogger(l))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/healthz", line["uri"])
	assert.EqualValues(t, 200, line["status"])
	assert.Equal(t, "info", line["level"])
}

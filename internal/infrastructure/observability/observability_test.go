package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctorfinder/pkg/config"
)

func TestInitLogger_JSONOutsideDevelopment(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf, "doctor-finder", "production", "debug")

	logger := Component("directory")
	logger.Info().Msg("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "doctor-finder", entry["service"])
	assert.Equal(t, "directory", entry["component"])
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf, "doctor-finder", "production", "loud")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, http.MethodGet, "/health", http.StatusOK, time.Millisecond)
		RecordDerivation(ctx, nil, "fees", 3)
		RecordSuggestion(ctx, nil, 0)
		RecordDirectoryLoad(ctx, nil, "success", time.Millisecond)
	})
}

func TestSetup_ServesPrometheusMetrics(t *testing.T) {
	ctx := context.Background()
	telemetry, err := Setup(ctx, config.OTELConfig{ServiceName: "doctor-finder-test", ServiceVersion: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = telemetry.Shutdown(context.Background()) })

	metrics, err := InitMetrics()
	require.NoError(t, err)
	RecordDirectoryLoad(ctx, metrics, "success", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	telemetry.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "directory_load")
}

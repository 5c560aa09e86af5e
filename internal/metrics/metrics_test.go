package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"review-service/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Mock_IgnoresRecords", func(t *testing.T) {
		m := metrics.NewMock()

		assert.NotPanics(t, func() {
			m.Database.RecordQuery(ctx, "insert", "drivers", time.Millisecond, errors.New("boom"))
			m.HTTP.RecordRequest(ctx, http.MethodGet, "/api/drivers", http.StatusOK, time.Millisecond)
			m.Health.RecordDependencyCheck(ctx, "postgres", time.Millisecond, nil)
		})
	})

	t.Run("Database_RecordQuery", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		dm, err := metrics.NewDatabaseMetrics(provider.Meter("test"))
		require.NoError(t, err)

		dm.RecordQuery(ctx, "insert", "drivers", 3*time.Millisecond, nil)
		dm.RecordQuery(ctx, "insert", "drivers", 3*time.Millisecond, errors.New("duplicate"))

		got := collect(t, reader)

		duration, ok := got["db.query.duration"].Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, duration.DataPoints, 1)
		assert.Equal(t, uint64(2), duration.DataPoints[0].Count)

		errorsSum, ok := got["db.query.errors"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, errorsSum.DataPoints, 1)
		assert.Equal(t, int64(1), errorsSum.DataPoints[0].Value)
	})

	t.Run("HTTP_Middleware", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		hm, err := metrics.NewHTTPMetrics(provider.Meter("test"))
		require.NoError(t, err)

		router := mux.NewRouter()
		router.Use(hm.Middleware())
		router.HandleFunc("/api/drivers/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/drivers/1", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/drivers/2", nil))

		got := collect(t, reader)

		total, ok := got["http.server.requests_total"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, total.DataPoints, 1, "both ids share the route template")
		assert.Equal(t, int64(2), total.DataPoints[0].Value)

		route, ok := total.DataPoints[0].Attributes.Value("http_route")
		require.True(t, ok)
		assert.Equal(t, "/api/drivers/{id}", route.AsString())

		errs, ok := got["http.server.errors_total"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, errs.DataPoints, 1)
		assert.Equal(t, int64(2), errs.DataPoints[0].Value)
	})

	t.Run("Health_DependencyUp", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer provider.Shutdown(ctx)

		hm, err := metrics.NewHealthMetrics(provider.Meter("test"))
		require.NoError(t, err)

		hm.RecordDependencyCheck(ctx, "postgres", time.Millisecond, errors.New("down"))

		up, ok := collect(t, reader)["dependency.up"].Data.(metricdata.Gauge[int64])
		require.True(t, ok)
		require.Len(t, up.DataPoints, 1)
		assert.Equal(t, int64(0), up.DataPoints[0].Value)
	})
}

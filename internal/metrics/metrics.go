package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Runtime  *RuntimeMetrics
	Database *DatabaseMetrics
	HTTP     *HTTPMetrics
	Health   *HealthMetrics
	meter    metric.Meter
	logger   *slog.Logger
}

// New builds collectors on the global meter provider, which is a no-op
// until telemetry.InitMeterProvider installs a real one.
func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	runtime, err := NewRuntimeMetrics(meter)
	if err != nil {
		return nil, err
	}

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	httpMetrics, err := NewHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return &Metrics{
		Runtime:  runtime,
		Database: database,
		HTTP:     httpMetrics,
		Health:   health,
		meter:    meter,
		logger:   logger,
	}, nil
}

func (m *Metrics) Meter() metric.Meter {
	return m.meter
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
		HTTP:     &HTTPMetrics{},
		Health:   &HealthMetrics{},
		Runtime:  &RuntimeMetrics{},
	}
}

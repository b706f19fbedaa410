package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// GaugeSource reports the current value of an observable gauge
type GaugeSource func(ctx context.Context) (int64, error)

// RegisterGauges registers the process uptime gauge and, when charts is
// non-nil, the number of stored chart definitions. A failing source is
// logged and its sample skipped for that collection.
func RegisterGauges(meter metric.Meter, start time.Time, charts GaugeSource, logger *slog.Logger) (metric.Registration, error) {
	uptime, err := meter.Float64ObservableGauge(
		"process_uptime_seconds",
		metric.WithDescription("Seconds since the server started"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stored, err := meter.Int64ObservableGauge(
		"charts_stored",
		metric.WithDescription("Chart definitions in the chart store"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveFloat64(uptime, time.Since(start).Seconds())

		if charts == nil {
			return nil
		}
		n, err := charts(ctx)
		if err != nil {
			logger.WarnContext(ctx, "chart count unavailable", slog.String("error", err.Error()))
			return nil
		}
		o.ObserveInt64(stored, n)
		return nil
	}, uptime, stored)
}

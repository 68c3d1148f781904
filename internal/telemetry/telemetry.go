package telemetry

import (
	"context"

	"github.com/NilFoundation/vvm/internal/telemetry/internal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type (
	Config       = internal.Config
	ExportOption = internal.ExportOption

	Meter     = metric.Meter
	Counter   = metric.Int64Counter
	Histogram = metric.Int64Histogram
)

const (
	ExportOptionNone = internal.ExportOptionNone
	ExportOptionGrpc = internal.ExportOptionGrpc
)

func Init(ctx context.Context, config *Config) error {
	return internal.InitMetrics(ctx, config)
}

func Shutdown(ctx context.Context) {
	internal.ShutdownMetrics(ctx)
}

func NewMeter(name string) Meter {
	return otel.Meter(name)
}

package exec

import (
	"context"

	"github.com/NilFoundation/vvm/internal/telemetry"
	"github.com/NilFoundation/vvm/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type MetricsHandler struct {
	// Counters
	framesCounter   telemetry.Counter
	failuresCounter telemetry.Counter

	// Histograms
	depthHistogram   telemetry.Histogram
	gasUsedHistogram telemetry.Histogram
}

func NewMetricsHandler(name string) (*MetricsHandler, error) {
	meter := telemetry.NewMeter(name)
	handler := &MetricsHandler{}
	if err := handler.initMetrics(meter); err != nil {
		return nil, err
	}
	return handler, nil
}

func (mh *MetricsHandler) initMetrics(meter metric.Meter) error {
	var err error

	mh.framesCounter, err = meter.Int64Counter("frames_executed")
	if err != nil {
		return err
	}

	mh.failuresCounter, err = meter.Int64Counter("frames_failed")
	if err != nil {
		return err
	}

	mh.depthHistogram, err = meter.Int64Histogram("stack_depth")
	if err != nil {
		return err
	}

	mh.gasUsedHistogram, err = meter.Int64Histogram("gas_used")
	if err != nil {
		return err
	}

	return nil
}

func (mh *MetricsHandler) RecordFrame(ctx context.Context, entryPoint EntryPoint, success bool) {
	option := metric.WithAttributes(attribute.String("entry_point", entryPoint.String()))
	mh.framesCounter.Add(ctx, 1, option)
	if !success {
		mh.failuresCounter.Add(ctx, 1, option)
	}
}

func (mh *MetricsHandler) RecordStack(ctx context.Context, maxDepth int, gasUsed types.Gas) {
	mh.depthHistogram.Record(ctx, int64(maxDepth))
	mh.gasUsedHistogram.Record(ctx, int64(gasUsed))
}

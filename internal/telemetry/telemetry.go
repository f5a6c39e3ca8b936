// Package telemetry registers the engine's OpenTelemetry instruments.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/comalice/motionx"

// Instruments holds the counters. A nil *Instruments records nothing.
type Instruments struct {
	instructions        metric.Int64Counter
	instructionsEnabled bool
	gateChanges         metric.Int64Counter
	gateChangesEnabled  bool
}

// New registers the counters on meter, or on the global meter provider when
// meter is nil. Registration failures are logged and leave the instrument
// disabled.
func New(meter metric.Meter, logger *zap.Logger) *Instruments {
	if logger == nil {
		logger = zap.NewNop()
	}
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}

	instructions, instErr := meter.Int64Counter(
		"motionx.instructions",
		metric.WithDescription("Count of transition instructions emitted by primitives"),
	)
	if instErr != nil {
		logger.Warn("telemetry: unable to register instruction counter", zap.Error(instErr))
	}

	gateChanges, gateErr := meter.Int64Counter(
		"motionx.gate.changes",
		metric.WithDescription("Count of shouldAnimate flips"),
	)
	if gateErr != nil {
		logger.Warn("telemetry: unable to register gate counter", zap.Error(gateErr))
	}

	return &Instruments{
		instructions:        instructions,
		instructionsEnabled: instErr == nil,
		gateChanges:         gateChanges,
		gateChangesEnabled:  gateErr == nil,
	}
}

// Instruction counts one emitted instruction.
func (i *Instruments) Instruction(ctx context.Context, primitive string, immediate bool) {
	if i == nil || !i.instructionsEnabled {
		return
	}
	i.instructions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("primitive", primitive),
		attribute.Bool("immediate", immediate),
	))
}

// GateChange counts one flip of the motion gate.
func (i *Instruments) GateChange(ctx context.Context, shouldAnimate bool) {
	if i == nil || !i.gateChangesEnabled {
		return
	}
	i.gateChanges.Add(ctx, 1, metric.WithAttributes(attribute.Bool("should_animate", shouldAnimate)))
}

// Package platform defines the boundary with the simulation platform: a
// source of measurement batches and a sink for equipment commands. The fitting
// core treats the platform purely through these interfaces; transport details
// live under infra/platform.
package platform

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/zipfit/core/model"
)

// ErrEmptyBatch is returned when a measurement query yields no samples.
var ErrEmptyBatch = errors.New("measurement query returned no data")

// MeasurementSource delivers batches of (V, P, Q) samples for a load.
type MeasurementSource interface {
	// FetchBatch collects samples published for the load until the window
	// elapses or the context is cancelled. An empty window yields
	// ErrEmptyBatch.
	FetchBatch(ctx context.Context, loadID string, window time.Duration) (model.SampleSet, error)
}

// Command describes one attribute change for a device in a running
// simulation. Forward is the new value, Reverse the current one, so the
// platform can undo the difference.
type Command struct {
	ObjectMRID string  `json:"object_mrid"`
	Attribute  string  `json:"attribute"`
	Forward    float64 `json:"forward_value"`
	Reverse    float64 `json:"reverse_value"`
}

// CommandSink pushes equipment commands into a running simulation.
type CommandSink interface {
	SendCommands(ctx context.Context, simulationID string, cmds []Command) error
}

// ModelPublisher reports fitted load models back to the platform.
type ModelPublisher interface {
	PublishModel(ctx context.Context, loadID string, result model.FitResult) error
}

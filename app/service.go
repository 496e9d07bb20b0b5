// Package app wires the fitting service: measurement batches are pulled from
// the platform on a fixed cycle, fitted in parallel and published back, with
// every outcome recorded on the metrics sinks.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/zipfit/config"
	"github.com/kilianp07/zipfit/core/fit"
	coremetrics "github.com/kilianp07/zipfit/core/metrics"
	"github.com/kilianp07/zipfit/core/model"
	coreplatform "github.com/kilianp07/zipfit/core/platform"
	"github.com/kilianp07/zipfit/infra/logger"
	"github.com/kilianp07/zipfit/infra/metrics"
	"github.com/kilianp07/zipfit/infra/platform"
	"github.com/kilianp07/zipfit/internal/eventbus"
	"github.com/kilianp07/zipfit/internal/pool"
)

// FitEvent is broadcast on the service bus after every fit.
type FitEvent struct {
	LoadID string
	Result model.FitResult
}

// Client is the platform surface the service needs: batches in, models out.
type Client interface {
	coreplatform.MeasurementSource
	coreplatform.ModelPublisher
}

// Service runs the periodic fit loop.
type Service struct {
	fitter *fit.Fitter
	client Client
	sink   coremetrics.Sink
	bus    *eventbus.Bus[FitEvent]
	cfg    *config.Config
	log    logger.Logger

	disconnect func()
}

// New creates a Service from the configuration, connecting to the platform
// broker.
func New(cfg *config.Config) (*Service, error) {
	client, err := platform.NewPahoClient(cfg.Platform)
	if err != nil {
		return nil, fmt.Errorf("platform client: %w", err)
	}
	svc, err := NewWithClient(cfg, client)
	if err != nil {
		client.Disconnect()
		return nil, err
	}
	svc.disconnect = client.Disconnect
	return svc, nil
}

// NewWithClient creates a Service around an existing platform client. Used by
// tests with the mock client.
func NewWithClient(cfg *config.Config, client Client) (*Service, error) {
	logg := logger.New("service")
	fitter, err := fit.New(cfg.Fit, logg)
	if err != nil {
		return nil, fmt.Errorf("fitter: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		fitter: fitter,
		client: client,
		sink:   sink,
		bus:    eventbus.New[FitEvent](),
		cfg:    cfg,
		log:    logg,
	}, nil
}

// Events returns a subscription to fit events.
func (s *Service) Events() <-chan FitEvent {
	return s.bus.Subscribe()
}

// Run executes fit cycles until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	window := time.Duration(s.cfg.WindowSeconds) * time.Second
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.RunCycle(ctx, window)
	}
}

// RunCycle collects one measurement window for every configured load and fits
// the batches in parallel.
func (s *Service) RunCycle(ctx context.Context, window time.Duration) {
	var jobs []pool.Job
	for _, l := range s.cfg.Loads {
		set, err := s.client.FetchBatch(ctx, l.ID, window)
		if err != nil {
			if errors.Is(err, coreplatform.ErrEmptyBatch) {
				s.log.Debugf("no measurements for load %s", l.ID)
			} else if ctx.Err() == nil {
				s.log.Errorf("fetch batch for %s: %v", l.ID, err)
			}
			continue
		}
		jobs = append(jobs, pool.Job{
			LoadID:  l.ID,
			Samples: set,
			Vn:      l.NominalVoltage,
			Options: fit.Options{NominalPower: l.NominalPower},
		})
	}
	if len(jobs) == 0 {
		return
	}

	start := time.Now()
	results := pool.Run(ctx, s.fitter, jobs, s.cfg.Workers)
	records := make([]coremetrics.FitRecord, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			s.log.Errorf("fit %s: %v", r.LoadID, r.Err)
			continue
		}
		records = append(records, coremetrics.FitRecord{
			LoadID:    r.LoadID,
			Solver:    r.Fit.Solver,
			Converged: r.Fit.Success,
			Objective: r.Fit.Objective,
			Residual:  r.Fit.Residual,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		})
		if r.Fit.Success {
			if err := s.client.PublishModel(ctx, r.LoadID, r.Fit); err != nil {
				s.log.Errorf("publish model for %s: %v", r.LoadID, err)
			}
		}
		s.bus.Publish(FitEvent{LoadID: r.LoadID, Result: r.Fit})
	}
	if len(records) > 0 {
		if err := s.sink.RecordFit(records); err != nil {
			s.log.Errorf("record metrics: %v", err)
		}
	}
}

// Close releases the bus and the broker connection.
func (s *Service) Close() error {
	s.bus.Close()
	if s.disconnect != nil {
		s.disconnect()
	}
	return nil
}

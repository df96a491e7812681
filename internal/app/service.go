// Package service provides the widget timeline service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/rangers/internal/domain/character"
	"github.com/okian/rangers/internal/domain/timeline"
	"github.com/okian/rangers/internal/domain/types"
	"github.com/okian/rangers/pkg/logger"
	"github.com/okian/rangers/pkg/metrics"
)

// Service answers snapshot and timeline requests from the widget host.
type Service struct {
	generator *timeline.Generator

	// Configuration
	step    time.Duration
	catalog *character.Catalog
	clock   func() time.Time

	// Counters exposed via GetStats
	snapshots    atomic.Int64
	placeholders atomic.Int64
	timelines    atomic.Int64
	entries      atomic.Int64
	fallbacks    atomic.Int64

	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStep sets the spacing between timeline entries.
func WithStep(step time.Duration) Option {
	return func(s *Service) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithCatalog sets the character table.
func WithCatalog(c *character.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the time source used when the host does not supply one.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		step:    timeline.DefaultStep,
		catalog: character.Default(),
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	s.logger = s.logger.Named("timeline")
	s.generator = timeline.NewGenerator(
		timeline.WithStep(s.step),
		timeline.WithCatalog(s.catalog),
	)
	s.startedAt = s.clock()

	return s
}

// Catalog returns the character table in use.
func (s *Service) Catalog() *character.Catalog { return s.catalog }

// Now returns the current time according to the service clock.
func (s *Service) Now() time.Time { return s.clock() }

// Placeholder returns the entry shown before real data is available.
func (s *Service) Placeholder(ctx context.Context) timeline.Entry {
	e := s.generator.Placeholder(s.clock())
	s.placeholders.Add(1)
	metrics.RecordPlaceholder()
	s.logger.Debug(ctx, "placeholder served", logger.String("character", e.Character.ID()))
	return e
}

// Snapshot returns a single entry for selection at the current time.
func (s *Service) Snapshot(ctx context.Context, selection string) timeline.Entry {
	return s.SnapshotAt(ctx, selection, s.clock())
}

// SnapshotAt returns a single entry for selection at now.
func (s *Service) SnapshotAt(ctx context.Context, selection string, now time.Time) timeline.Entry {
	if _, ok := s.catalog.Lookup(selection); !ok {
		s.recordFallback(ctx, selection)
	}
	e := s.generator.Snapshot(selection, now)
	s.snapshots.Add(1)
	metrics.RecordSnapshot(e.Character.ID())
	return e
}

// Timeline returns the timeline for selection starting at the current time.
func (s *Service) Timeline(ctx context.Context, selection string) timeline.Timeline {
	return s.TimelineAt(ctx, selection, s.clock())
}

// TimelineAt returns the timeline for selection starting at now.
func (s *Service) TimelineAt(ctx context.Context, selection string, now time.Time) timeline.Timeline {
	start := time.Now()
	tl, plan := s.generator.GenerateWithPlan(selection, now)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	if !plan.Matched {
		s.recordFallback(ctx, selection)
	}
	if plan.Selected != plan.Shown {
		metrics.RecordSubstitution(plan.Selected.ID(), plan.Shown.ID())
	}
	s.timelines.Add(1)
	s.entries.Add(int64(len(tl.Entries)))
	metrics.RecordTimeline(plan.Shown.ID(), len(tl.Entries), latencyMs)

	s.logger.Debug(ctx, "timeline generated",
		logger.String("selection", selection),
		logger.String("selected", plan.Selected.ID()),
		logger.String("shown", plan.Shown.ID()),
		logger.Time("end", plan.EndDate),
		logger.Int("entries", len(tl.Entries)),
	)
	return tl
}

// Characters returns every selectable character.
func (s *Service) Characters() []character.Detail {
	return s.catalog.Details()
}

// Describe returns the widget gallery descriptor.
func (s *Service) Describe() types.WidgetDescriptor {
	return types.Describe()
}

// GetStats returns counters describing the service activity.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"snapshots":         s.snapshots.Load(),
		"placeholders":      s.placeholders.Load(),
		"timelines":         s.timelines.Load(),
		"entries":           s.entries.Load(),
		"resolverFallbacks": s.fallbacks.Load(),
		"stepMs":            s.step.Milliseconds(),
		"characters":        len(s.catalog.Details()),
		"uptimeSeconds":     int64(s.clock().Sub(s.startedAt).Seconds()),
	}
}

func (s *Service) recordFallback(ctx context.Context, selection string) {
	s.fallbacks.Add(1)
	metrics.RecordResolverFallback()
	if selection != "" {
		s.logger.Info(ctx, "unknown character selection; using default",
			logger.String("selection", selection),
			logger.String("default", character.DefaultCharacter.ID()),
		)
	}
}

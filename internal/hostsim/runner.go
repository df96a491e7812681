package hostsim

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rangers/internal/domain/types"
	"github.com/okian/rangers/pkg/logger"
)

// Run plays the widget host against a running provider: it reads the gallery
// descriptor and the placeholder, then requests and presents timelines until
// the policy stops asking for more, a timeline comes back empty, or the
// configured number of cycles is reached.
func Run(ctx context.Context, config *Config, log logger.Logger) (*Stats, error) {
	if log == nil {
		log = logger.Nop()
	}
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.BaseURL, config.Timeout)

	log.Info(ctx, "starting widget host simulation",
		logger.String("baseURL", config.BaseURL),
		logger.String("hero", config.Hero),
		logger.String("family", config.Family),
		logger.Int("cycles", config.Cycles),
		logger.Duration("timeout", config.Timeout))

	// Step 1: Gallery descriptor
	var desc types.WidgetDescriptor
	if err := client.getJSON(ctx, "/widget", nil, &desc); err != nil {
		return nil, fmt.Errorf("descriptor request failed: %w", err)
	}
	if err := verifyDescriptor(desc, config.Family); err != nil {
		return nil, err
	}
	log.Info(ctx, "widget descriptor",
		logger.String("kind", desc.Kind),
		logger.String("displayName", desc.DisplayName))

	// Step 2: Entry spacing advertised by the provider
	var ss serverStats
	if err := client.getJSON(ctx, "/stats", nil, &ss); err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	stats.Step = time.Duration(ss.StepMs) * time.Millisecond

	// Step 3: Placeholder shown before any data
	var placeholder types.EntryView
	if err := client.getJSON(ctx, "/placeholder", entryQuery(&Config{Family: config.Family}, time.Time{}), &placeholder); err != nil {
		return nil, fmt.Errorf("placeholder request failed: %w", err)
	}
	if placeholder.Relevance != nil {
		return nil, fmt.Errorf("%w: placeholder carries relevance", ErrVerify)
	}
	log.Info(ctx, "placeholder", logger.String("character", placeholder.Character))

	// Step 4: Timeline cycles
	now := config.Start
	for cycle := 0; cycle < config.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var tl types.TimelineView
		if err := client.getJSON(ctx, "/timeline", entryQuery(config, now), &tl); err != nil {
			return nil, fmt.Errorf("timeline request %d failed: %w", cycle, err)
		}
		if err := VerifyTimeline(tl, stats.Step); err != nil {
			return nil, fmt.Errorf("timeline %d: %w", cycle, err)
		}
		stats.Timelines++

		if len(tl.Entries) == 0 {
			stats.EmptyTimelines++
			log.Info(ctx, "empty timeline; nothing to present", logger.Int("cycle", cycle))
			break
		}

		present(ctx, log, config.Verbose, cycle, tl)
		stats.EntriesPresented += len(tl.Entries)

		first, last := tl.Entries[0], tl.Entries[len(tl.Entries)-1]
		if stats.SimulatedStart.IsZero() {
			stats.SimulatedStart = first.Date
		}
		stats.SimulatedEnd = last.Date

		if tl.Policy != PolicyAtEnd {
			log.Info(ctx, "reload policy stops the cycle", logger.String("policy", tl.Policy))
			break
		}
		now = last.Date.Add(stats.Step)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// present walks the entries in simulated time.
func present(ctx context.Context, log logger.Logger, verbose bool, cycle int, tl types.TimelineView) {
	first := tl.Entries[0]
	log.Info(ctx, "presenting timeline",
		logger.Int("cycle", cycle),
		logger.Int("entries", len(tl.Entries)),
		logger.String("character", first.Character),
		logger.Float64("relevance", float64(*first.Relevance)),
		logger.Time("from", first.Date),
		logger.Time("to", tl.Entries[len(tl.Entries)-1].Date))

	if !verbose {
		return
	}
	for i, e := range tl.Entries {
		log.Info(ctx, "entry",
			logger.Int("cycle", cycle),
			logger.Int("index", i),
			logger.Time("date", e.Date),
			logger.String("name", e.Name),
			logger.String("avatar", e.Avatar))
	}
}

// displayFinalStats logs the final simulation statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("timelines", stats.Timelines),
		logger.Int("entriesPresented", stats.EntriesPresented),
		logger.Int("emptyTimelines", stats.EmptyTimelines),
		logger.Duration("step", stats.Step),
		logger.Duration("simulated", stats.SimulatedEnd.Sub(stats.SimulatedStart)),
		logger.Duration("duration", stats.Duration))
}

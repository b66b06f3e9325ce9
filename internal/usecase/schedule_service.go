package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/reconcile"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ProviderSchedule = "schedule"
	ProviderOdds     = "odds"
)

type ScheduleQuery struct {
	Start       time.Time
	End         time.Time
	IncludeOdds bool
}

// ScheduleRecorder receives reconciliation and provider outcomes for metrics.
type ScheduleRecorder interface {
	ObserveUpstream(provider string, duration time.Duration, err error)
	ObserveIndex(stats reconcile.IndexStats)
	ObserveMerge(stats reconcile.MergeStats)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstream(string, time.Duration, error) {}
func (nopRecorder) ObserveIndex(reconcile.IndexStats)            {}
func (nopRecorder) ObserveMerge(reconcile.MergeStats)            {}

type ScheduleServiceConfig struct {
	Schedules schedule.Provider
	// Odds may be nil; odds are then never attached.
	Odds     odds.Provider
	Indexer  *reconcile.Indexer
	Merger   *reconcile.Merger
	Timeout  time.Duration
	Logger   *logging.Logger
	Recorder ScheduleRecorder
}

type ScheduleService struct {
	schedules schedule.Provider
	odds      odds.Provider
	indexer   *reconcile.Indexer
	merger    *reconcile.Merger
	timeout   time.Duration
	logger    *logging.Logger
	recorder  ScheduleRecorder
	now       func() time.Time
}

func NewScheduleService(cfg ScheduleServiceConfig) *ScheduleService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	indexer := cfg.Indexer
	if indexer == nil {
		indexer = reconcile.NewIndexer(odds.SourceSelector{}, time.UTC, nil)
	}
	merger := cfg.Merger
	if merger == nil {
		merger = reconcile.NewMerger(time.UTC)
	}

	return &ScheduleService{
		schedules: cfg.Schedules,
		odds:      cfg.Odds,
		indexer:   indexer,
		merger:    merger,
		timeout:   cfg.Timeout,
		logger:    logger,
		recorder:  recorder,
		now:       time.Now,
	}
}

// OddsEnabled reports whether an odds provider is wired.
func (s *ScheduleService) OddsEnabled() bool {
	return s.odds != nil
}

// GetSchedule fetches the schedule for the query range and, when asked, the
// current odds, then merges both into the canonical day list.
func (s *ScheduleService) GetSchedule(ctx context.Context, query ScheduleQuery) ([]schedule.Day, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetSchedule")
	defer span.End()

	if query.Start.IsZero() || query.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if query.End.Before(query.Start) {
		return nil, fmt.Errorf("%w: end date must be on or after start date", ErrInvalidInput)
	}
	if s.schedules == nil {
		return nil, fmt.Errorf("%w: schedule provider is not configured", ErrDependencyUnavailable)
	}

	if query.IncludeOdds && s.odds == nil {
		s.logger.WarnContext(ctx, "odds requested but no odds provider is configured")
		return nil, fmt.Errorf("%w: odds provider is not configured", ErrDependencyUnavailable)
	}
	withOdds := query.IncludeOdds
	span.SetAttributes(
		attribute.String("schedule.start", query.Start.Format(time.DateOnly)),
		attribute.String("schedule.end", query.End.Format(time.DateOnly)),
		attribute.Bool("schedule.include_odds", withOdds),
	)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		days    []schedule.SourceDay
		records []odds.Record
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		days, err = s.fetchSchedule(ctx, query)
		return err
	})
	if withOdds {
		p.Go(func(ctx context.Context) error {
			var err error
			records, err = s.fetchOdds(ctx)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return nil, s.classify(ctx, err)
	}

	var index *reconcile.Index
	if withOdds {
		var indexStats reconcile.IndexStats
		index, indexStats = s.indexer.Build(records)
		s.recorder.ObserveIndex(indexStats)
		s.logIndexStats(ctx, indexStats)
	}

	merged, mergeStats := s.merger.Merge(days, index)
	s.recorder.ObserveMerge(mergeStats)

	span.SetAttributes(
		attribute.Int("schedule.days", mergeStats.Days),
		attribute.Int("schedule.games", mergeStats.Games),
		attribute.Int("schedule.games_with_odds", mergeStats.WithOdds()),
	)
	s.logger.InfoContext(ctx, "schedule merged",
		"start", query.Start.Format(time.DateOnly),
		"end", query.End.Format(time.DateOnly),
		"include_odds", withOdds,
		"days", mergeStats.Days,
		"games", mergeStats.Games,
		"with_odds", mergeStats.WithOdds(),
		"paired", mergeStats.Paired,
		"mismatched", mergeStats.Mismatched,
		"unresolved", mergeStats.Unresolved,
	)

	return merged, nil
}

func (s *ScheduleService) fetchSchedule(ctx context.Context, query ScheduleQuery) ([]schedule.SourceDay, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.fetchSchedule")
	defer span.End()

	started := s.now()
	days, err := s.schedules.FetchSchedule(ctx, query.Start, query.End)
	s.recorder.ObserveUpstream(ProviderSchedule, s.now().Sub(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return days, nil
}

func (s *ScheduleService) fetchOdds(ctx context.Context) ([]odds.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.fetchOdds")
	defer span.End()

	started := s.now()
	records, err := s.odds.FetchOdds(ctx)
	s.recorder.ObserveUpstream(ProviderOdds, s.now().Sub(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	return records, nil
}

// classify maps provider and deadline failures onto the service's sentinels.
// The detailed cause is logged here and kept in the chain for callers.
func (s *ScheduleService) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDependencyUnavailable), errors.Is(err, ErrUpstream):
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
			break
		}
		if ctx.Err() != nil {
			return err
		}
		// a shared upstream call was cancelled by another caller
		err = fmt.Errorf("%w: %w", ErrUpstream, err)
	default:
		err = fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.logger.WarnContext(ctx, "schedule request failed", "error", err)
	return err
}

func (s *ScheduleService) logIndexStats(ctx context.Context, stats reconcile.IndexStats) {
	if stats.Overflow > 0 {
		s.logger.WarnContext(ctx, "odds index dropped outcomes beyond a double-header",
			"overflow", stats.Overflow,
			"records", stats.Records,
		)
	}
	if stats.Skipped > 0 {
		s.logger.DebugContext(ctx, "odds records skipped", "skipped", stats.Skipped, "records", stats.Records)
	}
	if stats.UnknownTeams > 0 {
		s.logger.WarnContext(ctx, "odds outcomes reference unknown team names", "unknown_teams", stats.UnknownTeams)
	}
}

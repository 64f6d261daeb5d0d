// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fantasyforge/forge/internal/adapters/cache"
	"github.com/fantasyforge/forge/internal/adapters/repository"
	"github.com/fantasyforge/forge/internal/adapters/signals"
	"github.com/fantasyforge/forge/internal/config"
	"github.com/fantasyforge/forge/internal/domain/dedupe"
	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/internal/domain/modifier"
	"github.com/fantasyforge/forge/internal/domain/ranking"
	"github.com/fantasyforge/forge/internal/domain/roster"
	"github.com/fantasyforge/forge/internal/domain/scoring"
	"github.com/fantasyforge/forge/internal/domain/smoothing"
	"github.com/fantasyforge/forge/internal/domain/types"
	"github.com/fantasyforge/forge/internal/orchestrator"
	"github.com/fantasyforge/forge/pkg/logger"
	"github.com/fantasyforge/forge/pkg/metrics"
)

// Service wires the scoring core together and exposes the contracts the
// HTTP API reads from.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	// Core components
	records      *repository.MemoryPlayerWeekStore
	events       *repository.MemoryEventLog
	contexts     *repository.MemoryContextStore
	anchors      *repository.MemoryAnchorStore
	boards       *repository.MemoryRankingStore
	deduper      dedupe.Deduper
	rosterCache  *roster.Cache
	signalLoader signals.Loader
	invalidator  cache.Invalidator
	builder      *ranking.Builder
	recomp       *orchestrator.Recomputer
	orch         *orchestrator.Orchestrator
	clock        orchestrator.Clock

	// State
	started    bool
	cancelOrch context.CancelFunc
	cyclesWait sync.WaitGroup
	startedAt  time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the validated configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRosterLoader sets the external roster collaborator.
func WithRosterLoader(load roster.LoadFunc) Option {
	return func(s *Service) {
		if load != nil {
			s.rosterCache = roster.New(load)
		}
	}
}

// WithSignalLoader sets the external signal-loader collaborator.
func WithSignalLoader(loader signals.Loader) Option {
	return func(s *Service) {
		if loader != nil {
			s.signalLoader = loader
		}
	}
}

// WithInvalidator sets the cache invalidation collaborator.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) {
		if inv != nil {
			s.invalidator = inv
		}
	}
}

// WithClock sets the clock driving the orchestrator loop.
func WithClock(c orchestrator.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:          config.New(),
		signalLoader: signals.NewStaticLoader(),
		rosterCache: roster.New(func(ctx context.Context) ([]model.Player, error) {
			return nil, nil
		}),
		clock: orchestrator.NewRealClock(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.invalidator == nil {
		s.invalidator = cache.NewLogInvalidator(s.logger.Named("cache"))
	}

	s.logger.Info(ctx, "starting forge scoring core...")

	s.records = repository.NewMemoryPlayerWeekStore()
	s.events = repository.NewMemoryEventLog()
	s.contexts = repository.NewMemoryContextStore()
	s.anchors = repository.NewMemoryAnchorStore()
	s.boards = repository.NewMemoryRankingStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.cfg.DedupeSize),
	)

	if err := s.rosterCache.Load(ctx); err != nil {
		// Not fatal: scope resolution fails into the per-player
		// isolation boundary until a later load succeeds.
		s.logger.Warn(ctx, "initial roster load failed", logger.Error(err))
	}

	calc := scoring.New(
		scoring.WithBaseWeights(componentWeights(s.cfg.BaseWeights)),
		scoring.WithPositionOverrides(positionOverrides(s.cfg.PositionWeightOverrides)),
	)
	mod := modifier.New(
		modifier.WithSensitivity(modifier.KindEnvironment, s.cfg.EnvironmentSensitivity),
		modifier.WithSensitivity(modifier.KindMatchup, s.cfg.MatchupSensitivity),
	)
	smoother := smoothing.New(
		smoothing.WithHalfLives(componentWeights(s.cfg.HalfLifeWeeks)),
		smoothing.WithMaxWeeklyDelta(s.cfg.MaxWeeklyDelta),
	)

	s.recomp = orchestrator.NewRecomputer(
		s.signalLoader, s.records, s.contexts, s.anchors,
		calc, mod, smoother,
		orchestrator.WithSignalTimeout(time.Duration(s.cfg.SignalTimeoutMS)*time.Millisecond),
	)
	s.builder = ranking.New(s.records, s.boards,
		ranking.WithLogger(s.logger.Named("ranking")),
	)
	s.orch = orchestrator.New(
		s.events, s.rosterCache, s.recomp, s.builder, s.invalidator,
		s.cfg.Season, s.cfg.Week,
		orchestrator.WithClock(s.clock),
		orchestrator.WithDrainInterval(time.Duration(s.cfg.DrainIntervalSeconds)*time.Second),
		orchestrator.WithParallelism(s.cfg.RecomputeParallelism),
		orchestrator.WithLogger(s.logger.Named("orchestrator")),
	)

	orchCtx, cancel := context.WithCancel(context.Background())
	s.cancelOrch = cancel
	s.cyclesWait.Add(1)
	go func() {
		defer s.cyclesWait.Done()
		s.orch.Run(orchCtx)
	}()

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "forge scoring core started",
		logger.Int("season", s.cfg.Season),
		logger.Int("week", s.cfg.Week),
		logger.Int("drainIntervalSeconds", s.cfg.DrainIntervalSeconds),
		logger.Int("rosterSize", s.rosterCache.Count()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping forge scoring core...")

	if s.cancelOrch != nil {
		s.cancelOrch()
	}
	s.cyclesWait.Wait()

	s.started = false
	s.logger.Info(context.Background(), "forge scoring core stopped")
}

// IngestEvent validates, deduplicates, and appends an event to the log.
// Returns true when the event id was already seen.
func (s *Service) IngestEvent(ctx context.Context, eventType model.EventType, scope model.Scope, eventID string) (string, bool, error) {
	if !eventType.Valid() {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, eventID) {
		metrics.RecordEventDuplicate()
		return eventID, true, nil
	}

	e := model.Event{
		ID:        eventID,
		Type:      eventType,
		Scope:     scope,
		CreatedAt: time.Now(),
	}
	if err := s.events.Append(ctx, e); err != nil {
		// Roll back the seen mark so a retry can land the event.
		s.deduper.Unrecord(ctx, eventID)
		return eventID, false, fmt.Errorf("append event: %w", err)
	}

	metrics.RecordEventIngested()
	metrics.UpdateUnprocessedEvents(s.events.UnprocessedCount(ctx))
	return eventID, false, nil
}

// Rankings returns the ordered board for a ranking type.
func (s *Service) Rankings(ctx context.Context, season, week int, t model.RankingType) ([]types.BoardEntry, error) {
	board, err := s.boards.Board(ctx, season, week, t)
	if err != nil {
		return nil, err
	}

	out := make([]types.BoardEntry, len(board))
	for i, e := range board {
		entry := types.BoardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PowerScore: e.PowerScore,
		}
		if e.HasDelta {
			delta := e.WeekDelta
			entry.WeekDelta = &delta
		}
		out[i] = entry
	}
	return out, nil
}

// PlayerWeek returns the persisted record for a player-week.
func (s *Service) PlayerWeek(ctx context.Context, playerID string, season, week int) (types.PlayerWeek, error) {
	rec, err := s.records.Get(ctx, playerID, season, week)
	if err != nil {
		return types.PlayerWeek{}, err
	}

	components := make(map[string]float64, len(rec.Components))
	for comp, v := range rec.Components {
		components[string(comp)] = v
	}
	flags := make([]string, len(rec.BypassFlags))
	for i, f := range rec.BypassFlags {
		flags[i] = string(f)
	}

	return types.PlayerWeek{
		PlayerID:         rec.PlayerID,
		Season:           rec.Season,
		Week:             rec.Week,
		Position:         string(rec.Position),
		TeamID:           rec.TeamID,
		Components:       components,
		BypassFlags:      flags,
		Confidence:       rec.Confidence,
		Established:      rec.Established(s.cfg.MinConfidence),
		PowerScore:       rec.PowerScore,
		InsufficientData: rec.InsufficientData,
	}, nil
}

// RecomputeBaseline recomputes every rostered player for the active
// week with no bypass flags (the normal smoothing path) and rebuilds
// the boards. Used to establish boards before any event arrives.
func (s *Service) RecomputeBaseline(ctx context.Context) error {
	players, err := s.rosterCache.Players(ctx)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	calcErr := 0
	for _, p := range players {
		if err := s.recomp.Recompute(ctx, p, s.cfg.Season, s.cfg.Week, nil); err != nil {
			calcErr++
			s.logger.Warn(ctx, "baseline recompute failed",
				logger.String("playerID", p.PlayerID),
				logger.Error(err),
			)
		}
	}
	metrics.UpdatePlayersTracked(s.records.Count(ctx))

	if err := s.builder.RebuildAll(ctx, s.cfg.Season, s.cfg.Week); err != nil {
		return fmt.Errorf("baseline rebuild: %w", err)
	}
	if calcErr > 0 {
		s.logger.Warn(ctx, "baseline finished with failures", logger.Int("failed", calcErr))
	}
	return nil
}

// ContextStore exposes the modifier context for seeding by ingestion
// collaborators.
func (s *Service) ContextStore() repository.ContextStore { return s.contexts }

// AnchorStore exposes the calibration anchors for seeding.
func (s *Service) AnchorStore() repository.AnchorStore { return s.anchors }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"season":  s.cfg.Season,
		"week":    s.cfg.Week,
	}

	if s.started {
		stats["unprocessedEvents"] = s.events.UnprocessedCount(ctx)
		stats["playersTracked"] = s.records.Count(ctx)
		stats["rosterState"] = s.rosterCache.State().String()
		stats["rosterSize"] = s.rosterCache.Count()
		stats["dedupeSize"] = s.deduper.Size()
		stats["drainCycles"] = s.orch.Cycles()
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())

		metrics.UpdateUnprocessedEvents(s.events.UnprocessedCount(ctx))
		metrics.UpdatePlayersTracked(s.records.Count(ctx))
	}

	return stats
}

// MaxBoardLimit returns the configured board size cap for the API.
func (s *Service) MaxBoardLimit() int { return s.cfg.MaxBoardLimit }

// componentWeights converts string-keyed config maps to component keys.
func componentWeights(in map[string]float64) map[model.Component]float64 {
	out := make(map[model.Component]float64, len(in))
	for name, v := range in {
		out[model.Component(name)] = v
	}
	return out
}

// positionOverrides converts string-keyed config overrides.
func positionOverrides(in map[string]map[string]float64) map[model.Position]map[model.Component]float64 {
	out := make(map[model.Position]map[model.Component]float64, len(in))
	for pos, weights := range in {
		out[model.Position(pos)] = componentWeights(weights)
	}
	return out
}

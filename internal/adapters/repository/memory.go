package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fantasyforge/forge/internal/domain/calibrate"
	"github.com/fantasyforge/forge/internal/domain/model"
)

// recordKey identifies a player-week record.
type recordKey struct {
	playerID string
	season   int
	week     int
}

// MemoryPlayerWeekStore implements PlayerWeekStore in memory.
type MemoryPlayerWeekStore struct {
	mu      sync.RWMutex
	records map[recordKey]model.PlayerWeekRecord
}

// NewMemoryPlayerWeekStore creates an empty player-week store.
func NewMemoryPlayerWeekStore() *MemoryPlayerWeekStore {
	return &MemoryPlayerWeekStore{
		records: map[recordKey]model.PlayerWeekRecord{},
	}
}

// Upsert creates or overwrites the record for its key.
func (s *MemoryPlayerWeekStore) Upsert(ctx context.Context, rec model.PlayerWeekRecord) error {
	_ = ctx
	if rec.PlayerID == "" {
		return fmt.Errorf("%w: empty player id", ErrRecordNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.UpdatedAt = time.Now()
	s.records[recordKey{rec.PlayerID, rec.Season, rec.Week}] = cloneRecord(rec)
	return nil
}

// Get returns the record for a key.
func (s *MemoryPlayerWeekStore) Get(ctx context.Context, playerID string, season, week int) (model.PlayerWeekRecord, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey{playerID, season, week}]
	if !ok {
		return model.PlayerWeekRecord{}, fmt.Errorf("%w: %s/%d/%d", ErrRecordNotFound, playerID, season, week)
	}
	return cloneRecord(rec), nil
}

// ListWeek returns all records for a (season, week), ordered by player id.
func (s *MemoryPlayerWeekStore) ListWeek(ctx context.Context, season, week int) ([]model.PlayerWeekRecord, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.PlayerWeekRecord, 0)
	for key, rec := range s.records {
		if key.season == season && key.week == week {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryPlayerWeekStore) Count(ctx context.Context) int {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// cloneRecord copies a record so callers cannot mutate stored state.
func cloneRecord(rec model.PlayerWeekRecord) model.PlayerWeekRecord {
	cp := rec
	if rec.Components != nil {
		cp.Components = make(map[model.Component]float64, len(rec.Components))
		for c, v := range rec.Components {
			cp.Components[c] = v
		}
	}
	if rec.BypassFlags != nil {
		cp.BypassFlags = append([]model.BypassFlag(nil), rec.BypassFlags...)
	}
	return cp
}

// MemoryEventLog implements EventLog as an in-memory append-only log.
type MemoryEventLog struct {
	mu     sync.RWMutex
	events []model.Event
	index  map[string]int
}

// NewMemoryEventLog creates an empty event log.
func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{
		index: map[string]int{},
	}
}

// Append adds a new event in the UNPROCESSED state.
func (l *MemoryEventLog) Append(ctx context.Context, e model.Event) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.index[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrEventExists, e.ID)
	}
	e.Status = model.EventUnprocessed
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	l.index[e.ID] = len(l.events)
	l.events = append(l.events, e)
	return nil
}

// Unprocessed returns pending events oldest first.
func (l *MemoryEventLog) Unprocessed(ctx context.Context) ([]model.Event, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Event, 0)
	for _, e := range l.events {
		if e.Status == model.EventUnprocessed {
			out = append(out, e)
		}
	}
	return out, nil
}

// MarkProcessing moves an event to PROCESSING.
func (l *MemoryEventLog) MarkProcessing(ctx context.Context, id string) error {
	return l.transition(ctx, id, model.EventProcessing)
}

// MarkProcessed moves an event to its terminal state.
func (l *MemoryEventLog) MarkProcessed(ctx context.Context, id string) error {
	return l.transition(ctx, id, model.EventProcessed)
}

func (l *MemoryEventLog) transition(_ context.Context, id string, to model.EventStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	// PROCESSED is terminal; a processed event is never revisited.
	if l.events[i].Status == model.EventProcessed {
		return fmt.Errorf("%w: %s", ErrEventTerminal, id)
	}
	l.events[i].Status = to
	return nil
}

// UnprocessedCount returns the number of pending events.
func (l *MemoryEventLog) UnprocessedCount(ctx context.Context) int {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.events {
		if e.Status == model.EventUnprocessed {
			n++
		}
	}
	return n
}

// matchupKey identifies a matchup score.
type matchupKey struct {
	offense string
	defense string
	pos     model.Position
}

// scheduleKey identifies a team's slot in the weekly schedule.
type scheduleKey struct {
	season int
	week   int
	team   string
}

// MemoryContextStore implements ContextStore in memory.
type MemoryContextStore struct {
	mu          sync.RWMutex
	environment map[string]float64
	matchups    map[matchupKey]float64
	schedule    map[scheduleKey]string
}

// NewMemoryContextStore creates an empty context store.
func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{
		environment: map[string]float64{},
		matchups:    map[matchupKey]float64{},
		schedule:    map[scheduleKey]string{},
	}
}

func (s *MemoryContextStore) SetEnvironment(_ context.Context, teamID string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment[teamID] = score
}

func (s *MemoryContextStore) Environment(_ context.Context, teamID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.environment[teamID]
	return score, ok
}

func (s *MemoryContextStore) SetMatchup(_ context.Context, offenseTeam, defenseTeam string, pos model.Position, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchups[matchupKey{offenseTeam, defenseTeam, pos}] = score
}

func (s *MemoryContextStore) Matchup(_ context.Context, offenseTeam, defenseTeam string, pos model.Position) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.matchups[matchupKey{offenseTeam, defenseTeam, pos}]
	return score, ok
}

func (s *MemoryContextStore) SetOpponent(_ context.Context, season, week int, teamID, opponentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule[scheduleKey{season, week, teamID}] = opponentID
}

func (s *MemoryContextStore) Opponent(_ context.Context, season, week int, teamID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opp, ok := s.schedule[scheduleKey{season, week, teamID}]
	return opp, ok
}

// MemoryAnchorStore implements AnchorStore in memory.
type MemoryAnchorStore struct {
	mu      sync.RWMutex
	anchors map[model.Position]calibrate.Anchors
}

// NewMemoryAnchorStore creates an anchor store with no per-position
// anchors installed; lookups fall back to calibrate.DefaultAnchors.
func NewMemoryAnchorStore() *MemoryAnchorStore {
	return &MemoryAnchorStore{
		anchors: map[model.Position]calibrate.Anchors{},
	}
}

// SetAnchors installs anchors for a position after validation.
func (s *MemoryAnchorStore) SetAnchors(_ context.Context, pos model.Position, a calibrate.Anchors) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[pos] = a
	return nil
}

// Anchors returns the position's anchors or defaults.
func (s *MemoryAnchorStore) Anchors(_ context.Context, pos model.Position) calibrate.Anchors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.anchors[pos]; ok {
		return a
	}
	return calibrate.DefaultAnchors()
}

// boardKey identifies a ranking board.
type boardKey struct {
	season int
	week   int
	t      model.RankingType
}

// MemoryRankingStore implements RankingStore in memory.
type MemoryRankingStore struct {
	mu     sync.RWMutex
	boards map[boardKey][]model.RankingEntry
}

// NewMemoryRankingStore creates an empty ranking store.
func NewMemoryRankingStore() *MemoryRankingStore {
	return &MemoryRankingStore{
		boards: map[boardKey][]model.RankingEntry{},
	}
}

// ReplaceBoard atomically swaps in a new board for a ranking type. The
// incoming board is validated in full before the swap so a bad rebuild
// leaves the previous board completely untouched.
func (s *MemoryRankingStore) ReplaceBoard(_ context.Context, season, week int, t model.RankingType, entries []model.RankingEntry) error {
	if err := validateBoard(season, week, t, entries); err != nil {
		return err
	}

	cp := make([]model.RankingEntry, len(entries))
	copy(cp, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[boardKey{season, week, t}] = cp
	return nil
}

// Board returns the current board for a key.
func (s *MemoryRankingStore) Board(_ context.Context, season, week int, t model.RankingType) ([]model.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, ok := s.boards[boardKey{season, week, t}]
	if !ok {
		return nil, fmt.Errorf("%w: %d/%d/%s", ErrBoardNotFound, season, week, t)
	}
	out := make([]model.RankingEntry, len(board))
	copy(out, board)
	return out, nil
}

// validateBoard enforces the board invariants: ranks 1..N in order,
// power scores non-increasing, and every entry on the right key.
func validateBoard(season, week int, t model.RankingType, entries []model.RankingEntry) error {
	for i, e := range entries {
		if e.Season != season || e.Week != week || e.Type != t {
			return fmt.Errorf("%w: entry %d has mismatched key", ErrInvalidBoard, i)
		}
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d, want %d", ErrInvalidBoard, i, e.Rank, i+1)
		}
		if i > 0 && e.PowerScore > entries[i-1].PowerScore {
			return fmt.Errorf("%w: power score increases at rank %d", ErrInvalidBoard, e.Rank)
		}
		if e.PlayerID == "" {
			return fmt.Errorf("%w: entry %d has empty player id", ErrInvalidBoard, i)
		}
	}
	return nil
}

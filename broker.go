package bowling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAtCapacity    = errors.New("server at capacity")
	ErrGameNotFound  = errors.New("game not found")
	ErrBrokerStopped = errors.New("broker is shutting down")
)

// BrokerOptions configures a Broker. Zero durations take the defaults.
type BrokerOptions struct {
	MaxConcurrentGames int
	GameTimeout        time.Duration // idle time before a lane is reclaimed
	FinishedRetention  time.Duration // how long a finished game stays readable
	CleanupInterval    time.Duration
	MetricsInterval    time.Duration
	Logger             *slog.Logger
}

func (o BrokerOptions) withDefaults() BrokerOptions {
	if o.MaxConcurrentGames <= 0 {
		o.MaxConcurrentGames = 100
	}
	if o.GameTimeout <= 0 {
		o.GameTimeout = 30 * time.Minute
	}
	if o.FinishedRetention <= 0 {
		o.FinishedRetention = 5 * time.Minute
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = time.Minute
	}
	if o.MetricsInterval <= 0 {
		o.MetricsInterval = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Broker hosts concurrently running games, one per lane.
type Broker struct {
	opts   BrokerOptions
	logger *slog.Logger

	sessions      map[string]*Session
	sessionsMutex *sync.RWMutex

	// Limits concurrent games
	gameSemaphore chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup

	hookMu   sync.RWMutex
	onChange func(Snapshot)
}

// Session wraps a game with its goroutine management and serialises every
// call into the game.
type Session struct {
	ID        string
	StartTime time.Time
	Context   context.Context
	Cancel    context.CancelFunc

	mu           sync.Mutex
	broker       *Broker
	game         *Game
	lastActivity time.Time
	finishedAt   time.Time
}

// GameSummary is a lane listing entry.
type GameSummary struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	Players   []string  `json:"players"`
	Frame     int       `json:"currentFrameNumber"`
	StartTime time.Time `json:"startTime"`
}

func NewBroker(opts BrokerOptions) *Broker {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Broker{
		opts:          opts,
		logger:        opts.Logger,
		sessions:      make(map[string]*Session),
		sessionsMutex: new(sync.RWMutex),
		gameSemaphore: make(chan struct{}, opts.MaxConcurrentGames),
		ctx:           ctx,
		cancel:        cancel,
		wg:            new(sync.WaitGroup),
	}
}

// Start launches the cleanup and monitoring workers.
func (b *Broker) Start() {
	b.wg.Add(2)
	go b.cleanupWorker()
	go b.monitoringWorker()

	b.logger.Info("broker started", slog.Int("max_games", b.opts.MaxConcurrentGames))
}

// OnChange registers fn to receive the new state after every accepted roll or
// restart. fn runs while the session is locked, so calls for one lane arrive in
// the order the changes were made. fn must not call back into the session.
func (b *Broker) OnChange(fn func(Snapshot)) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	b.onChange = fn
}

func (b *Broker) notify(snap Snapshot) {
	b.hookMu.RLock()
	fn := b.onChange
	b.hookMu.RUnlock()
	if fn != nil {
		fn(snap)
	}
}

// Stop cancels every session and waits for all workers to return.
func (b *Broker) Stop() {
	// CreateGame checks ctx and calls wg.Add under this lock
	b.sessionsMutex.Lock()
	b.cancel()
	for _, s := range b.sessions {
		s.Cancel()
	}
	b.sessionsMutex.Unlock()

	b.wg.Wait()
	b.logger.Info("broker stopped")
}

// CreateGame opens a lane and starts a game for names.
func (b *Broker) CreateGame(names []string) (*Session, error) {
	b.sessionsMutex.Lock()
	defer b.sessionsMutex.Unlock()

	if b.ctx.Err() != nil {
		return nil, ErrBrokerStopped
	}
	if len(names) == 0 {
		return nil, ErrInvalidRoster
	}

	select {
	case b.gameSemaphore <- struct{}{}:
	default:
		return nil, ErrAtCapacity
	}

	id := uuid.NewString()
	game := NewGame(id)
	game.SetLogger(b.logger)
	if err := game.StartGame(names); err != nil {
		<-b.gameSemaphore
		return nil, err
	}

	ctx, cancel := context.WithCancel(b.ctx)
	now := time.Now()
	session := &Session{
		ID:           id,
		StartTime:    now,
		Context:      ctx,
		Cancel:       cancel,
		broker:       b,
		game:         game,
		lastActivity: now,
	}

	b.sessions[id] = session
	b.wg.Add(1)
	go b.manageSession(session)

	b.logger.Info("game created", slog.String("game_id", id), slog.Int("players", len(names)))
	return session, nil
}

func (b *Broker) GetSession(id string) (*Session, bool) {
	b.sessionsMutex.RLock()
	defer b.sessionsMutex.RUnlock()
	s, ok := b.sessions[id]
	return s, ok
}

// RemoveGame ends a lane immediately.
func (b *Broker) RemoveGame(id string) error {
	s, ok := b.GetSession(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	s.Cancel()
	return nil
}

// ListGames returns lanes ordered by start time.
func (b *Broker) ListGames() []GameSummary {
	b.sessionsMutex.RLock()
	sessions := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.sessionsMutex.RUnlock()

	out := make([]GameSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (b *Broker) ActiveGameCount() int {
	b.sessionsMutex.RLock()
	defer b.sessionsMutex.RUnlock()
	return len(b.sessions)
}

// AvailableSlots returns how many more games can be created.
func (b *Broker) AvailableSlots() int {
	return cap(b.gameSemaphore) - len(b.gameSemaphore)
}

// manageSession holds the lane's slot until the session ends.
func (b *Broker) manageSession(s *Session) {
	defer func() {
		s.Cancel()
		<-b.gameSemaphore

		b.sessionsMutex.Lock()
		delete(b.sessions, s.ID)
		b.sessionsMutex.Unlock()
		b.wg.Done()

		b.logger.Info("game closed",
			slog.String("game_id", s.ID),
			slog.Duration("duration", time.Since(s.StartTime)),
		)
	}()

	ticker := time.NewTicker(b.tickInterval())
	defer ticker.Stop()

	logged := false
	for {
		select {
		case <-ticker.C:
			finishedAt, idle := s.status()
			if finishedAt.IsZero() {
				logged = false
			} else {
				if !logged {
					b.logger.Info("game finished",
						slog.String("game_id", s.ID),
						slog.String("scoreboard", RenderScoreboard(s.Snapshot().Players)),
					)
					logged = true
				}
				if time.Since(finishedAt) >= b.opts.FinishedRetention {
					return
				}
			}
			if idle >= b.opts.GameTimeout {
				b.logger.Info("game timed out", slog.String("game_id", s.ID))
				return
			}
		case <-s.Context.Done():
			return
		}
	}
}

func (b *Broker) tickInterval() time.Duration {
	return min(time.Second, b.opts.FinishedRetention, b.opts.GameTimeout)
}

// cleanupWorker periodically cancels lanes idle past the game timeout. The
// per-session loop normally catches these first.
func (b *Broker) cleanupWorker() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.cleanupStaleGames()
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *Broker) cleanupStaleGames() {
	b.sessionsMutex.RLock()
	defer b.sessionsMutex.RUnlock()

	for id, s := range b.sessions {
		if _, idle := s.status(); idle > b.opts.GameTimeout {
			b.logger.Info("cleaning up stale game", slog.String("game_id", id))
			s.Cancel()
		}
	}
}

func (b *Broker) monitoringWorker() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.opts.MetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.logMetrics()
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *Broker) logMetrics() {
	b.logger.Info("broker metrics",
		slog.Int("active_games", b.ActiveGameCount()),
		slog.Int("available_slots", b.AvailableSlots()),
	)
}

// Roll records pins on the lane's game.
func (s *Session) Roll(pins int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Context.Err() != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, s.ID)
	}
	over, err := s.game.Roll(pins)
	if err != nil {
		return s.game.Snapshot(), err
	}
	s.lastActivity = time.Now()
	if over {
		s.finishedAt = s.lastActivity
	}
	snap := s.game.Snapshot()
	s.broker.notify(snap)
	return snap, nil
}

// Restart starts a fresh game on the same lane.
func (s *Session) Restart(names []string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Context.Err() != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, s.ID)
	}
	if err := s.game.StartGame(names); err != nil {
		return s.game.Snapshot(), err
	}
	s.lastActivity = time.Now()
	s.finishedAt = time.Time{}
	snap := s.game.Snapshot()
	s.broker.notify(snap)
	return snap, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

func (s *Session) Summary() GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := s.game.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return GameSummary{
		ID:        s.ID,
		State:     s.game.State(),
		Players:   names,
		Frame:     s.game.CurrentFrameNumber(),
		StartTime: s.StartTime,
	}
}

func (s *Session) status() (finishedAt time.Time, idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt, time.Since(s.lastActivity)
}

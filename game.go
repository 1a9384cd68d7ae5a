package bowling

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// GameState represents the current state of the game
type GameState string

const (
	GameStateWaiting    GameState = "waiting"
	GameStateInProgress GameState = "in_progress"
	GameStateFinished   GameState = "finished"
)

type GameInterface interface {
	StartGame(names []string) error
	Roll(pins int) (bool, error)
	RemainingPins() int
	IsGameOver() bool
	Players() []Player
	CurrentPlayerIndex() int
	CurrentFrameNumber() int
	Reset()
}

// Game is a single scoring session. It does no locking: callers serialise
// access, and Session does that for games hosted by a Broker.
type Game struct {
	ID        string
	CreatedAt time.Time

	players []*Player
	turn    Turn
	state   GameState
	logger  *slog.Logger
}

var _ GameInterface = (*Game)(nil)

func NewGame(id string) *Game {
	return &Game{
		ID:        id,
		CreatedAt: time.Now(),
		turn:      NewTurn(),
		state:     GameStateWaiting,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (g *Game) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	g.logger = l
}

// StartGame discards any previous game and seats one player per name.
// An empty roster leaves the game untouched.
func (g *Game) StartGame(names []string) error {
	if len(names) == 0 {
		return ErrInvalidRoster
	}
	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = NewPlayer(name, i+1)
	}

	g.players = players
	g.turn = NewTurn()
	g.state = GameStateInProgress

	g.logger.Info("game started", slog.String("game_id", g.ID), slog.Int("players", len(players)))
	return nil
}

// Reset drops the players and returns the game to waiting.
func (g *Game) Reset() {
	g.players = nil
	g.turn = NewTurn()
	g.state = GameStateWaiting
}

// Roll records pins for the acting player. A rejected roll changes nothing.
// It reports whether the game is over after the roll.
func (g *Game) Roll(pins int) (bool, error) {
	switch g.state {
	case GameStateWaiting:
		return false, ErrGameNotStarted
	case GameStateFinished:
		return true, ErrRollAfterGameOver
	}

	player, idx, ok := g.currentFrame()
	if !ok {
		return false, fmt.Errorf("%w: no frame for player %d frame %d",
			ErrIllegalRoll, g.turn.PlayerIndex, g.turn.FrameNumber)
	}
	isTenth := g.turn.IsLastFrame()

	frame, err := RecordRoll(player.Frames[idx], isTenth, pins)
	if err != nil {
		return false, err
	}
	player.Frames[idx] = frame

	for _, p := range g.players {
		ScorePlayer(p)
	}

	g.logger.Debug("roll recorded",
		slog.String("game_id", g.ID),
		slog.String("player", player.Name),
		slog.Int("frame", g.turn.FrameNumber),
		slog.Int("pins", pins),
	)

	if g.turn.Advance(frame, len(g.players)) {
		g.logger.Info("frame complete",
			slog.String("game_id", g.ID),
			slog.String("player", player.Name),
			slog.Int("frame", idx+1),
			slog.Int("running_total", player.Frames[idx].RunningTotal),
		)
	}

	if g.turn.GameOver(g.players) {
		g.state = GameStateFinished
		g.logger.Info("game over", slog.String("game_id", g.ID))
		return true, nil
	}
	return false, nil
}

// RemainingPins is the most pins the next roll may knock down: 0 once the game
// is over, 10 before it starts.
func (g *Game) RemainingPins() int {
	if g.state == GameStateFinished {
		return 0
	}
	player, idx, ok := g.currentFrame()
	if !ok {
		return MaxPins
	}
	f := player.Frames[idx]
	return RemainingPins(f, g.turn.IsLastFrame(), len(f.Rolls))
}

func (g *Game) IsGameOver() bool {
	return g.state == GameStateFinished
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) CurrentPlayerIndex() int {
	return g.turn.PlayerIndex
}

func (g *Game) CurrentFrameNumber() int {
	return g.turn.FrameNumber
}

// CurrentPlayer returns a copy of the acting player.
func (g *Game) CurrentPlayer() (Player, bool) {
	if g.turn.PlayerIndex < 0 || g.turn.PlayerIndex >= len(g.players) {
		return Player{}, false
	}
	return g.players[g.turn.PlayerIndex].clone(), true
}

// Players returns deep copies; changing them does not affect the game.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = p.clone()
	}
	return out
}

func (g *Game) currentFrame() (*Player, int, bool) {
	if g.turn.PlayerIndex < 0 || g.turn.PlayerIndex >= len(g.players) {
		return nil, 0, false
	}
	player := g.players[g.turn.PlayerIndex]
	idx := g.turn.FrameNumber - 1
	if idx < 0 || idx >= len(player.Frames) {
		return nil, 0, false
	}
	return player, idx, true
}

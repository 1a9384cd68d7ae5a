package bowling

// Snapshot is a read-only projection of a game for outer layers.
type Snapshot struct {
	ID                 string    `json:"id"`
	State              GameState `json:"state"`
	Players            []Player  `json:"players"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	CurrentPlayer      string    `json:"currentPlayer,omitempty"`
	CurrentFrameNumber int       `json:"currentFrameNumber"`
	RemainingPins      int       `json:"remainingPins"`
	GameOver           bool      `json:"gameOver"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:                 g.ID,
		State:              g.state,
		Players:            g.Players(),
		CurrentPlayerIndex: g.turn.PlayerIndex,
		CurrentFrameNumber: g.turn.FrameNumber,
		RemainingPins:      g.RemainingPins(),
		GameOver:           g.IsGameOver(),
	}
	if p, ok := g.CurrentPlayer(); ok && !s.GameOver {
		s.CurrentPlayer = p.Name
	}
	return s
}

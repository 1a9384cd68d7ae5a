package bowling

// Turn tracks whose roll is next. FrameNumber is a shared round pointer:
// every player plays frame N before anyone plays frame N+1.
type Turn struct {
	PlayerIndex int `json:"currentPlayerIndex"`
	FrameNumber int `json:"currentFrameNumber"`
}

func NewTurn() Turn {
	return Turn{PlayerIndex: 0, FrameNumber: 1}
}

func (t Turn) IsLastFrame() bool {
	return t.FrameNumber == MaxFrames
}

// Advance applies the acting player's frame after a recorded roll. If the
// frame is complete the turn passes on, and the frame number moves when the
// player index wraps to 0. It reports whether the frame completed.
func (t *Turn) Advance(f Frame, playerCount int) bool {
	if playerCount <= 0 || !frameDone(f, t.IsLastFrame()) {
		return false
	}
	t.PlayerIndex = (t.PlayerIndex + 1) % playerCount
	if t.PlayerIndex == 0 {
		t.FrameNumber = min(t.FrameNumber+1, MaxFrames)
	}
	return true
}

func frameDone(f Frame, last bool) bool {
	n := len(f.Rolls)
	if last {
		return n == 3 || (n == 2 && !IsMark(f))
	}
	return IsMark(f) || n == 2
}

// GameOver reports the terminal state: the round pointer sits on the last
// frame, play has wrapped back to the first player, and every tenth frame is
// complete.
func (t Turn) GameOver(players []*Player) bool {
	if len(players) == 0 || !t.IsLastFrame() || t.PlayerIndex != 0 {
		return false
	}
	for _, p := range players {
		if !p.TenthComplete() {
			return false
		}
	}
	return true
}

package bowling

import (
	"fmt"
	"strings"
)

type Player struct {
	Name       string  `json:"name"`
	Frames     []Frame `json:"frames"`
	TotalScore int     `json:"totalScore"`
}

// NewPlayer returns a player with MaxFrames empty frames. A blank name becomes
// "Player N" where N is the 1-based seat.
func NewPlayer(name string, seat int) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player %d", seat)
	}
	frames := make([]Frame, MaxFrames)
	for i := range frames {
		frames[i] = newFrame([]int{})
	}
	return &Player{
		Name:   name,
		Frames: frames,
	}
}

// TenthComplete reports whether the player has finished the game.
func (p *Player) TenthComplete() bool {
	if len(p.Frames) < MaxFrames {
		return false
	}
	return IsComplete(p.Frames[MaxFrames-1], true)
}

func (p *Player) clone() Player {
	out := Player{
		Name:       p.Name,
		Frames:     make([]Frame, len(p.Frames)),
		TotalScore: p.TotalScore,
	}
	for i, f := range p.Frames {
		out.Frames[i] = f.clone()
	}
	return out
}

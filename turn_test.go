package bowling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurn_Advance(t *testing.T) {
	tests := []struct {
		name          string
		start         Turn
		rolls         []int
		players       int
		wantCompleted bool
		want          Turn
	}{
		{
			name:    "first ball keeps the turn",
			start:   NewTurn(),
			rolls:   []int{4},
			players: 2,
			want:    Turn{PlayerIndex: 0, FrameNumber: 1},
		},
		{
			name:          "open frame passes to next player",
			start:         NewTurn(),
			rolls:         []int{4, 3},
			players:       2,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 1, FrameNumber: 1},
		},
		{
			name:          "strike passes immediately",
			start:         NewTurn(),
			rolls:         []int{10},
			players:       3,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 1, FrameNumber: 1},
		},
		{
			name:          "last player wraps and moves the frame",
			start:         Turn{PlayerIndex: 1, FrameNumber: 4},
			rolls:         []int{2, 8},
			players:       2,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 0, FrameNumber: 5},
		},
		{
			name:          "single player advances a frame per turn",
			start:         NewTurn(),
			rolls:         []int{1, 1},
			players:       1,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 0, FrameNumber: 2},
		},
		{
			name:    "tenth frame strike keeps the turn",
			start:   Turn{PlayerIndex: 0, FrameNumber: 10},
			rolls:   []int{10, 10},
			players: 1,
			want:    Turn{PlayerIndex: 0, FrameNumber: 10},
		},
		{
			name:          "tenth frame open ends the turn",
			start:         Turn{PlayerIndex: 0, FrameNumber: 10},
			rolls:         []int{3, 4},
			players:       2,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 1, FrameNumber: 10},
		},
		{
			name:          "frame number is capped at ten",
			start:         Turn{PlayerIndex: 0, FrameNumber: 10},
			rolls:         []int{10, 10, 10},
			players:       1,
			wantCompleted: true,
			want:          Turn{PlayerIndex: 0, FrameNumber: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := tt.start
			f := frameOf(t, turn.IsLastFrame(), tt.rolls...)
			assert.Equal(t, tt.wantCompleted, turn.Advance(f, tt.players))
			assert.Equal(t, tt.want, turn)
		})
	}
}

func TestTurn_GameOver(t *testing.T) {
	finished := func() *Player {
		p := NewPlayer("done", 1)
		p.Frames[MaxFrames-1] = newFrame([]int{3, 4})
		return p
	}
	playing := func() *Player {
		p := NewPlayer("playing", 2)
		p.Frames[MaxFrames-1] = newFrame([]int{10, 10})
		return p
	}

	tests := []struct {
		name    string
		turn    Turn
		players []*Player
		want    bool
	}{
		{name: "no players", turn: Turn{PlayerIndex: 0, FrameNumber: 10}, want: false},
		{name: "all finished", turn: Turn{PlayerIndex: 0, FrameNumber: 10}, players: []*Player{finished(), finished()}, want: true},
		{name: "one still bowling", turn: Turn{PlayerIndex: 0, FrameNumber: 10}, players: []*Player{finished(), playing()}, want: false},
		{name: "not wrapped", turn: Turn{PlayerIndex: 1, FrameNumber: 10}, players: []*Player{finished(), finished()}, want: false},
		{name: "earlier frame", turn: Turn{PlayerIndex: 0, FrameNumber: 9}, players: []*Player{finished()}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.turn.GameOver(tt.players))
		})
	}
}

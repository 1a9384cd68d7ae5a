package bowling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playFrames feeds rolls through a single-player game and returns its frames.
func playFrames(t *testing.T, rolls ...int) []Frame {
	t.Helper()
	g := NewGame("score")
	require.NoError(t, g.StartGame([]string{"solo"}))
	for i, r := range rolls {
		_, err := g.Roll(r)
		require.NoError(t, err, "roll %d (%d)", i, r)
	}
	return g.Players()[0].Frames
}

func repeat(pins, times int) []int {
	out := make([]int, times)
	for i := range out {
		out[i] = pins
	}
	return out
}

func TestScoreFrames(t *testing.T) {
	tests := []struct {
		name  string
		rolls []int
		total int
	}{
		{name: "all gutters", rolls: repeat(0, 20), total: 0},
		{name: "all ones", rolls: repeat(1, 20), total: 20},
		{name: "one spare", rolls: append([]int{3, 7, 3}, repeat(0, 17)...), total: 16},
		{name: "one strike", rolls: append([]int{10, 3, 4}, repeat(0, 16)...), total: 24},
		{name: "perfect game", rolls: repeat(10, 12), total: 300},
		{name: "all spares of five", rolls: repeat(5, 21), total: 150},
		{name: "nine and miss", rolls: []int{9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0, 9, 0}, total: 90},
		{name: "tenth strike then open bonus", rolls: append(repeat(0, 18), 10, 3, 4), total: 17},
		{name: "tenth spare then strike", rolls: append(repeat(0, 18), 4, 6, 10), total: 20},
		{
			name:  "mixed game",
			rolls: []int{10, 7, 3, 9, 0, 10, 0, 8, 8, 2, 0, 6, 10, 10, 10, 8, 1},
			total: 167,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := ScoreFrames(playFrames(t, tt.rolls...))
			assert.Equal(t, tt.total, ps.Total)
			assert.Equal(t, tt.total, ps.RunningTotals[MaxFrames-1])
			for i := range ps.Resolved {
				assert.True(t, ps.Resolved[i], "frame %d", i+1)
			}
		})
	}
}

func TestScoreFrames_SpareBonus(t *testing.T) {
	ps := ScoreFrames(playFrames(t, 7, 3, 4))

	assert.Equal(t, 14, ps.Scores[0])
	assert.Equal(t, 14, ps.RunningTotals[0])
	assert.True(t, ps.Resolved[0])
	assert.Equal(t, 4, ps.Scores[1])
	assert.False(t, ps.Resolved[1])
	assert.Equal(t, 18, ps.Total)
}

func TestScoreFrames_WithheldBonus(t *testing.T) {
	tests := []struct {
		name       string
		rolls      []int
		firstScore int
	}{
		{name: "strike alone", rolls: []int{10}, firstScore: 10},
		{name: "strike with one bonus", rolls: []int{10, 4}, firstScore: 14},
		{name: "double", rolls: []int{10, 10}, firstScore: 20},
		{name: "spare alone", rolls: []int{6, 4}, firstScore: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := ScoreFrames(playFrames(t, tt.rolls...))
			assert.Equal(t, tt.firstScore, ps.Scores[0])
			assert.False(t, ps.Resolved[0])
		})
	}
}

func TestScoreFrames_StrikeLooksPastStrike(t *testing.T) {
	ps := ScoreFrames(playFrames(t, 10, 10, 7, 2))

	assert.Equal(t, []int{27, 19, 9}, ps.Scores[:3])
	assert.Equal(t, []int{27, 46, 55}, ps.RunningTotals[:3])
}

func TestScoreFrames_NinthFrameStrikeUsesTenth(t *testing.T) {
	rolls := append(repeat(0, 16), 10, 10, 10, 10)
	ps := ScoreFrames(playFrames(t, rolls...))

	assert.Equal(t, 30, ps.Scores[8])
	assert.Equal(t, 30, ps.Scores[9])
	assert.Equal(t, 60, ps.Total)
}

func TestScoreFrames_Idempotent(t *testing.T) {
	frames := playFrames(t, 10, 7, 3, 9, 0, 10)
	first := ScoreFrames(frames)
	second := ScoreFrames(frames)
	assert.Equal(t, first, second)
}

func TestScoreFrames_RunningTotalsNonDecreasing(t *testing.T) {
	ps := ScoreFrames(playFrames(t, 10, 7, 3, 9, 0, 10, 0, 8))
	prev := 0
	for i, rt := range ps.RunningTotals {
		assert.GreaterOrEqual(t, rt, prev, "frame %d", i+1)
		assert.GreaterOrEqual(t, rt, 0)
		prev = rt
	}
	// unplayed frames carry the last total
	assert.Equal(t, ps.RunningTotals[4], ps.RunningTotals[MaxFrames-1])
}

func TestScoreFrames_CapsTotal(t *testing.T) {
	frames := make([]Frame, MaxFrames)
	for i := range frames {
		frames[i] = newFrame([]int{10, 10, 10})
	}
	assert.Equal(t, MaxScore, ScoreFrames(frames).Total)
}

func TestScorePlayer(t *testing.T) {
	p := NewPlayer("p", 1)
	p.Frames[0] = newFrame([]int{5, 5})
	p.Frames[1] = newFrame([]int{3})

	ps := ScorePlayer(p)

	assert.Equal(t, 13, p.Frames[0].Score)
	assert.Equal(t, 16, p.Frames[1].RunningTotal)
	assert.Equal(t, 16, p.TotalScore)
	assert.Equal(t, ps.Total, p.TotalScore)
}

package bowling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOf(t *testing.T, isTenth bool, rolls ...int) Frame {
	t.Helper()
	f := newFrame([]int{})
	for _, r := range rolls {
		var err error
		f, err = RecordRoll(f, isTenth, r)
		require.NoError(t, err, "rolls %v", rolls)
	}
	return f
}

func TestRemainingPins(t *testing.T) {
	tests := []struct {
		name    string
		rolls   []int
		isTenth bool
		want    int
	}{
		{name: "first ball", want: 10},
		{name: "after 3", rolls: []int{3}, want: 7},
		{name: "after gutter", rolls: []int{0}, want: 10},
		{name: "after strike", rolls: []int{10}, want: 0},
		{name: "frame done", rolls: []int{3, 4}, want: 0},
		{name: "tenth first ball", isTenth: true, want: 10},
		{name: "tenth after strike", rolls: []int{10}, isTenth: true, want: 10},
		{name: "tenth after 6", rolls: []int{6}, isTenth: true, want: 4},
		{name: "tenth double", rolls: []int{10, 10}, isTenth: true, want: 10},
		{name: "tenth strike then 7", rolls: []int{10, 7}, isTenth: true, want: 10},
		{name: "tenth spare", rolls: []int{6, 4}, isTenth: true, want: 10},
		{name: "tenth open", rolls: []int{6, 3}, isTenth: true, want: 0},
		{name: "tenth full", rolls: []int{10, 10, 10}, isTenth: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameOf(t, tt.isTenth, tt.rolls...)
			assert.Equal(t, tt.want, RemainingPins(f, tt.isTenth, len(f.Rolls)))
		})
	}
}

func TestRecordRoll(t *testing.T) {
	tests := []struct {
		name    string
		rolls   []int
		isTenth bool
		pins    int
		wantErr error
	}{
		{name: "negative", pins: -1, wantErr: ErrIllegalRoll},
		{name: "eleven", pins: 11, wantErr: ErrIllegalRoll},
		{name: "more than standing", rolls: []int{4}, pins: 7, wantErr: ErrIllegalRoll},
		{name: "exactly standing", rolls: []int{4}, pins: 6},
		{name: "after strike", rolls: []int{10}, pins: 0, wantErr: ErrFrameComplete},
		{name: "third ball open frame", rolls: []int{1, 2}, pins: 0, wantErr: ErrFrameComplete},
		{name: "tenth third ball after spare", rolls: []int{5, 5}, isTenth: true, pins: 10},
		{name: "tenth third ball after strike", rolls: []int{10, 8}, isTenth: true, pins: 3},
		{name: "tenth third ball eleven", rolls: []int{10, 8}, isTenth: true, pins: 11, wantErr: ErrIllegalRoll},
		{name: "tenth fourth ball", rolls: []int{10, 10, 10}, isTenth: true, pins: 0, wantErr: ErrFrameComplete},
		{name: "tenth third ball open", rolls: []int{3, 3}, isTenth: true, pins: 1, wantErr: ErrFrameComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameOf(t, tt.isTenth, tt.rolls...)
			got, err := RecordRoll(f, tt.isTenth, tt.pins)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, f, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, append(append([]int{}, tt.rolls...), tt.pins), got.Rolls)
		})
	}
}

func TestRecordRoll_DoesNotModifyInput(t *testing.T) {
	f := frameOf(t, false, 3)
	next, err := RecordRoll(f, false, 7)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, f.Rolls)
	assert.False(t, f.IsSpare)
	assert.True(t, next.IsSpare)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name                           string
		rolls                          []int
		isTenth                        bool
		strike, spare, gutter, isSplit bool
	}{
		{name: "strike", rolls: []int{10}, strike: true},
		{name: "spare", rolls: []int{5, 5}, spare: true},
		{name: "split spare", rolls: []int{3, 7}, spare: true, isSplit: true},
		{name: "split spare reversed", rolls: []int{9, 1}, spare: true, isSplit: true},
		{name: "gutter spare", rolls: []int{0, 10}, spare: true, gutter: true},
		{name: "open", rolls: []int{3, 4}},
		{name: "gutter first", rolls: []int{0, 4}, gutter: true},
		{name: "gutter second", rolls: []int{4, 0}, gutter: true},
		{name: "tenth strike then gutter", rolls: []int{10, 0, 5}, isTenth: true, strike: true, gutter: true},
		{name: "tenth spare then strike", rolls: []int{2, 8, 10}, isTenth: true, spare: true, isSplit: true},
		{name: "tenth strikes are not spares", rolls: []int{10, 10, 10}, isTenth: true, strike: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameOf(t, tt.isTenth, tt.rolls...)
			assert.Equal(t, tt.strike, f.IsStrike, "strike")
			assert.Equal(t, tt.spare, f.IsSpare, "spare")
			assert.Equal(t, tt.gutter, f.IsGutter, "gutter")
			assert.Equal(t, tt.isSplit, f.IsSplit, "split")
			assert.Equal(t, tt.strike || tt.spare, IsMark(f))
		})
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name    string
		rolls   []int
		isTenth bool
		want    bool
	}{
		{name: "empty", want: false},
		{name: "one ball", rolls: []int{4}, want: false},
		{name: "strike", rolls: []int{10}, want: true},
		{name: "two balls", rolls: []int{4, 5}, want: true},
		{name: "tenth strike", rolls: []int{10}, isTenth: true, want: false},
		{name: "tenth strike two balls", rolls: []int{10, 3}, isTenth: true, want: false},
		{name: "tenth spare", rolls: []int{4, 6}, isTenth: true, want: false},
		{name: "tenth open", rolls: []int{4, 5}, isTenth: true, want: true},
		{name: "tenth three balls", rolls: []int{4, 6, 2}, isTenth: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(frameOf(t, tt.isTenth, tt.rolls...), tt.isTenth))
		})
	}
}

func TestFrameSumNeverExceedsRack(t *testing.T) {
	for first := 0; first <= MaxPins; first++ {
		for second := 0; second <= MaxPins; second++ {
			f := frameOf(t, false, first)
			next, err := RecordRoll(f, false, second)
			if err != nil {
				continue
			}
			assert.LessOrEqual(t, next.pinsDown(), MaxPins, "rolls %v", next.Rolls)
			assert.GreaterOrEqual(t, RemainingPins(next, false, len(next.Rolls)), 0)
		}
	}
}

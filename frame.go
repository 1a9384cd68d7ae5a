package bowling

import (
	"fmt"
)

const (
	MaxPins   = 10
	MaxFrames = 10
	MaxScore  = 300
)

// Frame is one player's turn at one frame index. Frames are values: RecordRoll
// never touches the receiver, it returns a freshly classified copy.
type Frame struct {
	Rolls        []int `json:"rolls"`
	Score        int   `json:"score"`
	RunningTotal int   `json:"runningTotal"`
	Resolved     bool  `json:"resolved"`
	IsStrike     bool  `json:"isStrike"`
	IsSpare      bool  `json:"isSpare"`
	IsGutter     bool  `json:"isGutter"`
	IsSplit      bool  `json:"isSplit"`
}

// splitPairs are the first/second ball combinations recorded as a split spare.
var splitPairs = map[[2]int]bool{
	{1, 9}: true, {9, 1}: true,
	{2, 8}: true, {8, 2}: true,
	{3, 7}: true, {7, 3}: true,
	{4, 6}: true, {6, 4}: true,
}

// RemainingPins returns the most pins a roll at rollIndex may knock down.
// Zero means no further roll is legal in the frame.
func RemainingPins(f Frame, isTenth bool, rollIndex int) int {
	if isTenth {
		return tenthRemainingPins(f, rollIndex)
	}
	switch rollIndex {
	case 0:
		return MaxPins
	case 1:
		if len(f.Rolls) < 1 || f.Rolls[0] == MaxPins {
			return 0
		}
		return MaxPins - f.Rolls[0]
	}
	return 0
}

func tenthRemainingPins(f Frame, rollIndex int) int {
	switch rollIndex {
	case 0:
		return MaxPins
	case 1:
		if len(f.Rolls) < 1 {
			return 0
		}
		if f.Rolls[0] == MaxPins {
			return MaxPins
		}
		return MaxPins - f.Rolls[0]
	case 2:
		if len(f.Rolls) < 2 {
			return 0
		}
		// a strike or a spare earns a fresh rack for the bonus ball
		if IsMark(f) {
			return MaxPins
		}
	}
	return 0
}

// RecordRoll returns a new frame with pins appended. The receiver is not modified.
func RecordRoll(f Frame, isTenth bool, pins int) (Frame, error) {
	if IsComplete(f, isTenth) {
		return f, fmt.Errorf("%w: rolls %v", ErrFrameComplete, f.Rolls)
	}
	if pins < 0 || pins > MaxPins {
		return f, fmt.Errorf("%w: %d is outside 0..%d", ErrIllegalRoll, pins, MaxPins)
	}
	if remaining := RemainingPins(f, isTenth, len(f.Rolls)); pins > remaining {
		return f, fmt.Errorf("%w: %d pins with %d standing", ErrIllegalRoll, pins, remaining)
	}

	rolls := make([]int, len(f.Rolls), len(f.Rolls)+1)
	copy(rolls, f.Rolls)
	rolls = append(rolls, pins)

	return newFrame(rolls), nil
}

// newFrame classifies rolls from scratch. Scores are left for the resolver.
func newFrame(rolls []int) Frame {
	f := Frame{Rolls: rolls}
	if len(rolls) == 0 {
		return f
	}
	f.IsStrike = rolls[0] == MaxPins
	if !f.IsStrike && len(rolls) >= 2 && rolls[0]+rolls[1] == MaxPins {
		f.IsSpare = true
		f.IsSplit = splitPairs[[2]int{rolls[0], rolls[1]}]
	}
	for _, r := range rolls {
		if r == 0 {
			f.IsGutter = true
			break
		}
	}
	return f
}

// IsComplete reports whether no further roll belongs to the frame.
func IsComplete(f Frame, isTenth bool) bool {
	n := len(f.Rolls)
	if isTenth {
		return n == 3 || (n == 2 && !IsMark(f))
	}
	return n == 2 || (n == 1 && f.IsStrike)
}

// IsMark reports a strike or a spare.
func IsMark(f Frame) bool {
	return f.IsStrike || f.IsSpare
}

func (f Frame) pinsDown() int {
	sum := 0
	for _, r := range f.Rolls {
		sum += r
	}
	return sum
}

func (f Frame) clone() Frame {
	out := f
	out.Rolls = append([]int(nil), f.Rolls...)
	if out.Rolls == nil {
		out.Rolls = []int{}
	}
	return out
}

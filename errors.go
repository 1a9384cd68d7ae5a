package bowling

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoster     = errors.New("at least one player is required")
	ErrIllegalRoll       = errors.New("illegal roll")
	ErrFrameComplete     = fmt.Errorf("%w: frame is complete", ErrIllegalRoll)
	ErrRollAfterGameOver = errors.New("game is over")
	ErrGameNotStarted    = errors.New("game has not started")
)

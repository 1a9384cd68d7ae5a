package bowling

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MarkStrike = "X"
	MarkSpare  = "/"
	MarkGutter = "-"
)

// RollMarks returns the scoreboard symbol for each recorded roll. In the
// tenth frame a new rack starts after a strike or a spare.
func RollMarks(f Frame, isTenth bool) []string {
	marks := make([]string, 0, len(f.Rolls))
	rackStart := true
	standing := MaxPins
	for _, r := range f.Rolls {
		switch {
		case rackStart && r == MaxPins:
			marks = append(marks, MarkStrike)
		case !rackStart && r == standing:
			marks = append(marks, MarkSpare)
		case r == MaxPins:
			marks = append(marks, MarkStrike)
		case r == 0:
			marks = append(marks, MarkGutter)
		default:
			marks = append(marks, strconv.Itoa(r))
		}

		if rackStart && r < MaxPins {
			rackStart = false
			standing = MaxPins - r
		} else {
			rackStart = true
			standing = MaxPins
		}
		if !isTenth && rackStart {
			break
		}
	}
	return marks
}

// RenderScoreboard draws a fixed-width text scoreboard. Widths count runes,
// which is how fmt pads.
func RenderScoreboard(players []Player) string {
	nameWidth := len("Player")
	for _, p := range players {
		nameWidth = max(nameWidth, utf8.RuneCountInString(p.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", nameWidth, "Player")
	for i := 1; i <= MaxFrames; i++ {
		if i == MaxFrames {
			fmt.Fprintf(&b, " | %-5d", i)
			continue
		}
		fmt.Fprintf(&b, " | %-3d", i)
	}
	b.WriteString(" | Total\n")

	for _, p := range players {
		fmt.Fprintf(&b, "%-*s", nameWidth, p.Name)
		for i, f := range p.Frames {
			if i >= MaxFrames {
				break
			}
			cell := strings.Join(RollMarks(f, i == MaxFrames-1), " ")
			if i == MaxFrames-1 {
				fmt.Fprintf(&b, " | %-5s", cell)
				continue
			}
			fmt.Fprintf(&b, " | %-3s", cell)
		}
		fmt.Fprintf(&b, " | %d\n", p.TotalScore)

		fmt.Fprintf(&b, "%-*s", nameWidth, "")
		for i, f := range p.Frames {
			if i >= MaxFrames {
				break
			}
			cell := ""
			if len(f.Rolls) > 0 {
				cell = strconv.Itoa(f.RunningTotal)
			}
			if i == MaxFrames-1 {
				fmt.Fprintf(&b, " | %-5s", cell)
				continue
			}
			fmt.Fprintf(&b, " | %-3s", cell)
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

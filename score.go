package bowling

// PlayerScore is the resolver output for one player's frames.
type PlayerScore struct {
	Scores        [MaxFrames]int
	RunningTotals [MaxFrames]int
	Resolved      [MaxFrames]bool
	Total         int
}

// ScoreFrames resolves every frame from the recorded rolls alone. It never
// reads the Score, RunningTotal or Resolved fields it is given, so calling it
// twice on the same frames yields the same result.
func ScoreFrames(frames []Frame) PlayerScore {
	var ps PlayerScore
	running := 0
	for i := 0; i < MaxFrames; i++ {
		if i >= len(frames) || len(frames[i].Rolls) == 0 {
			ps.RunningTotals[i] = running
			continue
		}
		f := frames[i]
		score := f.pinsDown()
		resolved := IsComplete(f, i == MaxFrames-1)

		if i < MaxFrames-1 {
			need := 0
			switch {
			case f.IsStrike:
				need = 2
			case f.IsSpare:
				need = 1
			}
			bonus := bonusRolls(frames, i, need)
			for _, b := range bonus {
				score += b
			}
			if len(bonus) < need {
				resolved = false
			}
		}

		running += score
		ps.Scores[i] = score
		ps.RunningTotals[i] = running
		ps.Resolved[i] = resolved
	}
	ps.Total = min(ps.RunningTotals[MaxFrames-1], MaxScore)
	return ps
}

// bonusRolls returns up to n rolls recorded after frame i, in order. Lookahead
// never leaves the frame sequence, so the tenth frame bounds it.
func bonusRolls(frames []Frame, i, n int) []int {
	out := make([]int, 0, n)
	for j := i + 1; j < len(frames) && j < MaxFrames && len(out) < n; j++ {
		for _, r := range frames[j].Rolls {
			if len(out) == n {
				break
			}
			out = append(out, r)
		}
		// an unfinished frame has nothing after it yet
		if !IsComplete(frames[j], j == MaxFrames-1) {
			break
		}
	}
	return out
}

// ScorePlayer re-resolves p in place and returns the result.
func ScorePlayer(p *Player) PlayerScore {
	ps := ScoreFrames(p.Frames)
	for i := range p.Frames {
		if i >= MaxFrames {
			break
		}
		p.Frames[i].Score = ps.Scores[i]
		p.Frames[i].RunningTotal = ps.RunningTotals[i]
		p.Frames[i].Resolved = ps.Resolved[i]
	}
	p.TotalScore = ps.Total
	return ps
}

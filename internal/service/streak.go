package service

import (
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
)

// ComputeStreak counts consecutive calendar days with at least one completed
// session, walking backward from today. If today has no completion the
// streak is 0. Timestamps are collapsed onto local calendar days before the
// walk, so multiple completions on one day count once.
func ComputeStreak(completions []time.Time, today time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	days := make(map[string]bool, len(completions))
	for _, t := range completions {
		days[t.Local().Format(util.DateFormat)] = true
	}

	streak := 0
	day := today
	for days[day.Format(util.DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

package service

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
)

// PointsRule is the one canonical points and leveling policy. Every endpoint
// that mutates points goes through this type; constants come from config so
// there is exactly one place the rule can diverge from itself: nowhere.
type PointsRule struct {
	cfg config.GamificationConfig
}

func NewPointsRule(cfg config.GamificationConfig) *PointsRule {
	config.ApplyGamificationDefaults(&cfg)
	return &PointsRule{cfg: cfg}
}

// LevelFor maps a points total to a level. Invariant: for any points >= 0,
// LevelFor(points) == points/threshold + 1.
func (r *PointsRule) LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/r.cfg.LevelThreshold + 1
}

// NextLevelAt returns the points total at which the next level begins.
func (r *PointsRule) NextLevelAt(points int) int {
	return r.LevelFor(points) * r.cfg.LevelThreshold
}

// SessionCompletionAward returns the points for completing a session: the
// base amount plus a capped streak bonus once the streak is long enough.
func (r *PointsRule) SessionCompletionAward(streak int) int {
	award := r.cfg.SessionBasePoints
	if streak >= r.cfg.MinStreakForBonus {
		bonus := streak * r.cfg.StreakBonusPerDay
		if bonus > r.cfg.StreakBonusCap {
			bonus = r.cfg.StreakBonusCap
		}
		award += bonus
	}
	return award
}

// ReflectionAward returns the points for submitting a reflection: the base
// amount, plus a bonus when the reflection scored above the cutoff.
func (r *PointsRule) ReflectionAward(score *int) int {
	award := r.cfg.ReflectionBasePoints
	if score != nil && *score > r.cfg.ReflectionScoreCutoff {
		award += r.cfg.ReflectionScoreBonus
	}
	return award
}

// clampScore bounds a client-submitted reflection score to 0-100.
func clampScore(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

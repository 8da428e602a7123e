package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoMigrateEnabled(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug migrates by default", "debug", false, true},
		{"release skips by default", "release", false, false},
		{"release migrates when forced", "release", true, true},
		{"debug forced stays on", "debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ForceMigrate: tt.force}
			cfg.Server.Mode = tt.mode
			assert.Equal(t, tt.want, cfg.AutoMigrateEnabled())
		})
	}
}

func TestApplyGamificationDefaults(t *testing.T) {
	var g GamificationConfig
	ApplyGamificationDefaults(&g)

	assert.Equal(t, 1000, g.LevelThreshold)
	assert.Equal(t, 50, g.SessionBasePoints)
	assert.Equal(t, 10, g.StreakBonusPerDay)
	assert.Equal(t, 50, g.StreakBonusCap)
	assert.Equal(t, 3, g.MinStreakForBonus)
	assert.Equal(t, 10, g.ReflectionBasePoints)
	assert.Equal(t, 20, g.ReflectionScoreBonus)
	assert.Equal(t, 70, g.ReflectionScoreCutoff)
}

func TestApplyGamificationDefaultsKeepsOverrides(t *testing.T) {
	g := GamificationConfig{LevelThreshold: 500, SessionBasePoints: 25}
	ApplyGamificationDefaults(&g)

	assert.Equal(t, 500, g.LevelThreshold)
	assert.Equal(t, 25, g.SessionBasePoints)
	assert.Equal(t, 10, g.StreakBonusPerDay)
}

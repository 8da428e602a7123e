package service

import (
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFirstRunnablePhase(t *testing.T) {
	tests := []struct {
		name    string
		d       phaseDurations
		phase   model.Phase
		seconds int
		ok      bool
	}{
		{"full session starts at learn", phaseDurations{10, 10, 5}, model.PhaseLearn, 600, true},
		{"empty learn skips to act", phaseDurations{0, 10, 5}, model.PhaseAct, 600, true},
		{"only earn has time", phaseDurations{0, 0, 5}, model.PhaseEarn, 300, true},
		{"all phases empty", phaseDurations{0, 0, 0}, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, seconds, ok := firstRunnablePhase(tt.d)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.phase, phase)
			assert.Equal(t, tt.seconds, seconds)
		})
	}
}

func TestNextRunnablePhase(t *testing.T) {
	tests := []struct {
		name    string
		d       phaseDurations
		after   model.Phase
		phase   model.Phase
		seconds int
		ok      bool
	}{
		{"learn to act", phaseDurations{10, 10, 5}, model.PhaseLearn, model.PhaseAct, 600, true},
		{"act to earn", phaseDurations{10, 10, 5}, model.PhaseAct, model.PhaseEarn, 300, true},
		{"empty act skipped", phaseDurations{10, 0, 5}, model.PhaseLearn, model.PhaseEarn, 300, true},
		{"empty act and earn end the session", phaseDurations{10, 0, 0}, model.PhaseLearn, "", 0, false},
		{"earn has no successor", phaseDurations{10, 10, 5}, model.PhaseEarn, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, seconds, ok := nextRunnablePhase(tt.d, tt.after)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.phase, phase)
			assert.Equal(t, tt.seconds, seconds)
		})
	}
}

func TestNextPhaseOrder(t *testing.T) {
	next, ok := model.NextPhase(model.PhaseLearn)
	assert.True(t, ok)
	assert.Equal(t, model.PhaseAct, next)

	next, ok = model.NextPhase(model.PhaseAct)
	assert.True(t, ok)
	assert.Equal(t, model.PhaseEarn, next)

	_, ok = model.NextPhase(model.PhaseEarn)
	assert.False(t, ok)
}

package service

import (
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newManualTimer detaches the session's live runner and returns a timer the
// test drives tick by tick.
func newManualTimer(env *testEnv, session *model.Session, d phaseDurations) *sessionTimer {
	env.svc.timers.stop(session.ID, false)
	return &sessionTimer{
		registry:  env.svc.timers,
		sessionID: session.ID,
		userID:    session.UserID,
		durations: d,
		stop:      make(chan struct{}),
		phase:     session.Phase,
		remaining: session.TimeRemaining,
	}
}

func TestTimerTickCountsDown(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	tm := newManualTimer(env, session, phaseDurations{10, 10, 5})
	done := tm.tick()
	assert.False(t, done)
	assert.Equal(t, 599, tm.remaining)
	assert.Equal(t, model.PhaseLearn, tm.phase)
}

func TestTimerTickIgnoredWhilePaused(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	tm := newManualTimer(env, session, phaseDurations{10, 10, 5})
	tm.paused = true

	done := tm.tick()
	assert.False(t, done)
	assert.Equal(t, 600, tm.remaining)

	tm.paused = false
	assert.False(t, tm.tick())
	assert.Equal(t, 599, tm.remaining)
}

func TestTimerPersistsPeriodically(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	tm := newManualTimer(env, session, phaseDurations{10, 10, 5})
	for i := 0; i < persistEvery; i++ {
		assert.False(t, tm.tick())
	}

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 600-persistEvery, stored.TimeRemaining)
}

func TestTimerTransitionsAcrossPhases(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 1, 0, 1)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseLearn, session.Phase)

	tm := newManualTimer(env, session, phaseDurations{1, 0, 1})
	tm.remaining = 1

	// Learn expires; the zero-length act phase is skipped outright.
	done := tm.tick()
	assert.False(t, done)
	assert.Equal(t, model.PhaseEarn, tm.phase)
	assert.Equal(t, 60, tm.remaining)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseEarn, stored.Phase)
	assert.Equal(t, 60, stored.TimeRemaining)
}

func TestTimerFinalizesOnLastPhase(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 1, 1, 1)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	tm := newManualTimer(env, session, phaseDurations{1, 1, 1})
	tm.phase = model.PhaseEarn
	tm.remaining = 1

	done := tm.tick()
	assert.True(t, done)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	user2, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, user2.Points)
}

func TestTimerFinalizeLosesRaceGracefully(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 1, 1, 1)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	tm := newManualTimer(env, session, phaseDurations{1, 1, 1})
	tm.phase = model.PhaseEarn
	tm.remaining = 1

	// The user completes explicitly just before the countdown runs out.
	_, err = env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)

	done := tm.tick()
	assert.True(t, done)

	// Exactly one award despite two completion paths.
	stored, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Points)
}

func TestPausePersistsLiveCountdown(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	// Stand in a detached runner whose countdown ran ahead of the last
	// database snapshot.
	tm := newManualTimer(env, session, phaseDurations{10, 10, 5})
	tm.remaining = 590
	env.svc.timers.mu.Lock()
	env.svc.timers.runners[session.ID] = tm
	env.svc.timers.mu.Unlock()

	paused, err := env.svc.Pause(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 590, paused.TimeRemaining)
	assert.True(t, tm.paused)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 590, stored.TimeRemaining)
	assert.Equal(t, model.SessionPaused, stored.Status)
}

func TestRegistryReplacesExistingRunner(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	env.svc.timers.mu.Lock()
	first := env.svc.timers.runners[session.ID]
	env.svc.timers.mu.Unlock()
	require.NotNil(t, first)

	env.svc.timers.start(session, phaseDurations{10, 10, 5})

	env.svc.timers.mu.Lock()
	second := env.svc.timers.runners[session.ID]
	env.svc.timers.mu.Unlock()
	assert.NotSame(t, first, second)

	// The replaced runner was halted.
	select {
	case <-first.stop:
	default:
		t.Fatal("replaced runner was not halted")
	}
}

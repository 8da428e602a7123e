package service

import (
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartBeginsAtFirstRunnablePhase(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, completion, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	assert.Nil(t, completion)

	assert.Equal(t, model.SessionInProgress, session.Status)
	assert.Equal(t, model.PhaseLearn, session.Phase)
	assert.Equal(t, 600, session.TimeRemaining)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseLearn, stored.Phase)
}

func TestStartSkipsZeroLengthLearnPhase(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 0, 10, 5)

	session, completion, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	assert.Nil(t, completion)

	assert.Equal(t, model.PhaseAct, session.Phase)
	assert.Equal(t, 600, session.TimeRemaining)
}

func TestStartAllZeroLoopCompletesImmediately(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 0, 0, 0)

	session, completion, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	require.NotNil(t, completion)

	assert.Equal(t, model.SessionCompleted, session.Status)
	assert.Equal(t, 50, completion.PointsAwarded)
	assert.Equal(t, 1, completion.Streak)
}

func TestStartUnknownLoop(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	_, _, err := env.svc.Start(user.ID, "no-such-loop")
	assert.ErrorIs(t, err, util.ErrLoopNotFound)
}

func TestGetHidesOtherUsersSessions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t)
	other := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(owner.ID, loop.ID)
	require.NoError(t, err)

	_, err = env.svc.Get(other.ID, session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestPatchUpdatesPhaseAndCountdown(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	phase := model.PhaseAct
	remaining := 120
	patched, err := env.svc.Patch(user.ID, session.ID, PatchRequest{
		Phase:         &phase,
		TimeRemaining: &remaining,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseAct, patched.Phase)
	assert.Equal(t, 120, patched.TimeRemaining)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseAct, stored.Phase)
	assert.Equal(t, 120, stored.TimeRemaining)
}

func TestPatchClampsNegativeCountdown(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	remaining := -30
	patched, err := env.svc.Patch(user.ID, session.ID, PatchRequest{TimeRemaining: &remaining})
	require.NoError(t, err)
	assert.Equal(t, 0, patched.TimeRemaining)
}

func TestPatchCannotComplete(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	status := model.SessionCompleted
	_, err = env.svc.Patch(user.ID, session.ID, PatchRequest{Status: &status})
	assert.ErrorIs(t, err, util.ErrSessionCompleted)
}

func TestPatchRejectsInvalidPhase(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	bogus := model.Phase("sleep")
	_, err = env.svc.Patch(user.ID, session.ID, PatchRequest{Phase: &bogus})
	assert.ErrorIs(t, err, util.ErrInvalidPhase)
}

func TestPauseAndResume(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	paused, err := env.svc.Pause(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionPaused, paused.Status)

	stored, err := env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionPaused, stored.Status)

	resumed, err := env.svc.Resume(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, resumed.Status)

	stored, err = env.svc.Get(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, stored.Status)
}

func TestResumeRebuildsLostCountdown(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	// Simulate a restart: the runner is gone but the row survives.
	env.svc.timers.stop(session.ID, false)

	resumed, err := env.svc.Resume(user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, resumed.Status)
}

func TestSkipWalksPhasesThenCompletes(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 1, 1, 1)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseLearn, session.Phase)

	session, completion, err := env.svc.Skip(user.ID, session.ID)
	require.NoError(t, err)
	assert.Nil(t, completion)
	assert.Equal(t, model.PhaseAct, session.Phase)
	assert.Equal(t, 60, session.TimeRemaining)

	session, completion, err = env.svc.Skip(user.ID, session.ID)
	require.NoError(t, err)
	assert.Nil(t, completion)
	assert.Equal(t, model.PhaseEarn, session.Phase)

	session, completion, err = env.svc.Skip(user.ID, session.ID)
	require.NoError(t, err)
	require.NotNil(t, completion)
	assert.Equal(t, model.SessionCompleted, session.Status)

	_, _, err = env.svc.Skip(user.ID, session.ID)
	assert.ErrorIs(t, err, util.ErrSessionCompleted)
}

func TestSkipOverZeroLengthPhase(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 0, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	session, completion, err := env.svc.Skip(user.ID, session.ID)
	require.NoError(t, err)
	assert.Nil(t, completion)
	assert.Equal(t, model.PhaseEarn, session.Phase)
	assert.Equal(t, 300, session.TimeRemaining)
}

func TestCompleteAwardsPointsOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	result, err := env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, result.PointsAwarded)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 50, result.Points)
	assert.Equal(t, 1, result.Level)

	_, err = env.svc.Complete(user.ID, session.ID, nil)
	assert.ErrorIs(t, err, util.ErrSessionCompleted)

	stored, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Points)
}

func TestCompleteAwardsStreakBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)
	env.seedCompletedSession(t, user.ID, loop, 2)
	env.seedCompletedSession(t, user.ID, loop, 1)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	result, err := env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)
	assert.Equal(t, 80, result.PointsAwarded) // 50 base + 3×10 streak bonus
}

func TestCompleteWithReflectionAddsBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	score := 90
	result, err := env.svc.Complete(user.ID, session.ID, &ReflectionInput{
		Content:   "Blocking out the morning worked far better than I expected.",
		Sentiment: "positive",
		Score:     &score,
	})
	require.NoError(t, err)
	// 50 for the session, 10 for the reflection, 20 for the high score.
	assert.Equal(t, 80, result.PointsAwarded)
	assert.Equal(t, 80, result.Points)

	reflections, err := env.reflections.ListBySession(session.ID)
	require.NoError(t, err)
	require.Len(t, reflections, 1)
	assert.Equal(t, user.ID, reflections[0].UserID)
}

func TestCompleteWritesPointLogAndProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	_, err = env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)

	logs, total, err := env.pointLogs.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.PointSourceSession, logs[0].Source)
	assert.Equal(t, session.ID, logs[0].ReferenceID)

	rows, err := env.progress.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, loop.ProgramID, rows[0].ProgramID)
	assert.True(t, rows[0].Completed)
}

func TestCompleteUnlocksAchievements(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	catalog := model.Achievement{
		Code:             "first_session",
		Name:             "First Steps",
		RequirementType:  model.RequirementSessionsCompleted,
		RequirementCount: 1,
	}
	require.NoError(t, env.db.Create(&catalog).Error)

	session, _, err := env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)

	result, err := env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)
	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, "first_session", result.Unlocked[0].Code)

	// A second completion must not re-unlock it.
	session, _, err = env.svc.Start(user.ID, loop.ID)
	require.NoError(t, err)
	result, err = env.svc.Complete(user.ID, session.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Unlocked)
}

func TestCompleteLegacyProgramPath(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	loop := env.createLoop(t, 10, 10, 5)

	result, err := env.svc.CompleteLegacy(user.ID, loop.ProgramID, model.WorkspacePersonal)
	require.NoError(t, err)
	assert.Equal(t, 50, result.PointsAwarded)
	assert.Equal(t, model.SessionCompleted, result.Session.Status)
	assert.Equal(t, model.WorkspacePersonal, result.Session.Workspace)
}

func TestCompleteLegacyUnknownProgram(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	_, err := env.svc.CompleteLegacy(user.ID, 9999, model.WorkspacePersonal)
	assert.ErrorIs(t, err, util.ErrProgramNotFound)
}

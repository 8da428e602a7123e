package service

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReflectionService(env *testEnv, ai *AIService) *ReflectionService {
	return NewReflectionService(
		env.reflections, env.sessions, env.users, env.pointLogs,
		ai, NewPointsRule(config.GamificationConfig{}),
	)
}

// deadAIService points at a port nothing listens on, so every analysis
// attempt fails immediately.
func deadAIService() *AIService {
	return NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:1", Model: "test-model"})
}

func (e *testEnv) createSession(t *testing.T, userID uint) *model.Session {
	t.Helper()
	session := &model.Session{
		UserID:        userID,
		Status:        model.SessionInProgress,
		Phase:         model.PhaseEarn,
		TimeRemaining: 60,
		Workspace:     model.WorkspaceProfessional,
		StartedAt:     time.Now(),
	}
	require.NoError(t, e.sessions.Create(session))
	return session
}

func intPtr(v int) *int { return &v }

func TestCreateReflectionClientScoreWins(t *testing.T) {
	env := newTestEnv(t)
	svc := newReflectionService(env, deadAIService())
	user := env.createUser(t)
	session := env.createSession(t, user.ID)

	result, err := svc.Create(user.ID, CreateReflectionRequest{
		SessionID: session.ID,
		Content:   "I held focus for the full block and wrote down what broke it.",
		Sentiment: "positive",
		Score:     intPtr(85),
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.PointsAwarded)
	require.NotNil(t, result.Reflection.Score)
	assert.Equal(t, 85, *result.Reflection.Score)
	assert.Equal(t, "positive", result.Reflection.Sentiment)

	logs, _, err := env.pointLogs.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.PointSourceReflection, logs[0].Source)
	assert.Equal(t, 30, logs[0].Points)
}

func TestCreateReflectionFallsBackToAnalyzer(t *testing.T) {
	env := newTestEnv(t)
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(`{"sentiment": "positive", "score": 90}`))
	})
	svc := newReflectionService(env, ai)
	user := env.createUser(t)
	session := env.createSession(t, user.ID)

	result, err := svc.Create(user.ID, CreateReflectionRequest{
		SessionID: session.ID,
		Content:   "Tried the two-minute rule on my inbox.",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.PointsAwarded)
	require.NotNil(t, result.Reflection.Score)
	assert.Equal(t, 90, *result.Reflection.Score)
	assert.Equal(t, "positive", result.Reflection.Sentiment)
}

func TestCreateReflectionUnscoredWhenAnalyzerDown(t *testing.T) {
	env := newTestEnv(t)
	svc := newReflectionService(env, deadAIService())
	user := env.createUser(t)
	session := env.createSession(t, user.ID)

	result, err := svc.Create(user.ID, CreateReflectionRequest{
		SessionID: session.ID,
		Content:   "Short one today.",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.PointsAwarded)
	assert.Nil(t, result.Reflection.Score)
}

func TestCreateReflectionClampsScore(t *testing.T) {
	env := newTestEnv(t)
	svc := newReflectionService(env, deadAIService())
	user := env.createUser(t)
	session := env.createSession(t, user.ID)

	result, err := svc.Create(user.ID, CreateReflectionRequest{
		SessionID: session.ID,
		Content:   "Best session yet.",
		Score:     intPtr(150),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Reflection.Score)
	assert.Equal(t, 100, *result.Reflection.Score)
	assert.Equal(t, 30, result.PointsAwarded)
}

func TestCreateReflectionHidesOtherUsersSessions(t *testing.T) {
	env := newTestEnv(t)
	svc := newReflectionService(env, deadAIService())
	owner := env.createUser(t)
	intruder := env.createUser(t)
	session := env.createSession(t, owner.ID)

	_, err := svc.Create(intruder.ID, CreateReflectionRequest{
		SessionID: session.ID,
		Content:   "not mine",
	})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestCreateReflectionUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	svc := newReflectionService(env, deadAIService())
	user := env.createUser(t)

	_, err := svc.Create(user.ID, CreateReflectionRequest{
		SessionID: "no-such-session",
		Content:   "ghost",
	})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

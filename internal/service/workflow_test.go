package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"raw object", `{"a": 1}`, `{"a": 1}`},
		{"raw array", `[1, 2]`, `[1, 2]`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced without language tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", `Here is the JSON you asked for: {"a": 1}`, `{"a": 1}`},
		{"prose then fence", "Sure!\n```json\n[{\"id\": \"q1\"}]\n```\nLet me know.", `[{"id": "q1"}]`},
		{"surrounding whitespace", "  \n {\"a\": 1} \n ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(extractJSON(tt.raw)))
		})
	}
}

// workflowFixture backs WorkflowService with a scripted model: one canned
// response per system prompt kind.
func newWorkflowFixture(t *testing.T, intentJSON, composeJSON string) (*WorkflowService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)

	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		system := req.Messages[0].Content
		switch {
		case strings.Contains(system, "classify"):
			fmt.Fprint(w, chatResponse(intentJSON))
		default:
			fmt.Fprint(w, chatResponse(composeJSON))
		}
	})

	return NewWorkflowService(ai, env.programs, env.loops, nil), env
}

func TestParseIntent(t *testing.T) {
	svc, _ := newWorkflowFixture(t,
		`{"topic": "public speaking", "category": "communication", "workspace": "professional", "seriesType": "short_series", "tone": "direct"}`,
		"")

	intent, err := svc.ParseIntent("I want to get better at presenting to execs")
	require.NoError(t, err)
	assert.Equal(t, "public speaking", intent.Topic)
	assert.Equal(t, model.WorkspaceProfessional, intent.Workspace)
	assert.Equal(t, model.SeriesShortSeries, intent.SeriesType)
	assert.Equal(t, "direct", intent.Tone)
}

func TestParseIntentFillsDefaults(t *testing.T) {
	svc, _ := newWorkflowFixture(t, `{"topic": "meditation"}`, "")

	intent, err := svc.ParseIntent("help me relax")
	require.NoError(t, err)
	assert.Equal(t, model.WorkspacePersonal, intent.Workspace)
	assert.Equal(t, model.SeriesOneOff, intent.SeriesType)
	assert.Equal(t, "encouraging", intent.Tone)
}

func TestParseIntentRejectsGarbage(t *testing.T) {
	svc, _ := newWorkflowFixture(t, "I could not produce JSON for that, sorry.", "")

	_, err := svc.ParseIntent("help me relax")
	assert.ErrorIs(t, err, util.ErrAIMalformedResponse)
}

func TestParseIntentRequiresTopic(t *testing.T) {
	svc, _ := newWorkflowFixture(t, `{"tone": "calm"}`, "")

	_, err := svc.ParseIntent("help me relax")
	assert.ErrorIs(t, err, util.ErrAIMalformedResponse)
}

const validLoopJSON = `{"title": "Owning the Room", "learnText": "Presence is built...",
	"actText": "Record a two-minute pitch.", "earnText": "What felt different?",
	"learnMinutes": 15, "actMinutes": 7, "earnMinutes": 3}`

func TestBuildSeriesPersistsProgramAndLoops(t *testing.T) {
	svc, env := newWorkflowFixture(t,
		`{"topic": "public speaking", "category": "communication", "workspace": "professional", "seriesType": "short_series", "tone": "direct"}`,
		validLoopJSON)
	user := env.createUser(t)

	program, loops, err := svc.BuildSeries(user.ID, BuildSeriesRequest{
		Prompt:  "I want to get better at presenting to execs",
		Answers: []string{"beginner", "10 minutes a day"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Owning the Room", program.Title)
	assert.Equal(t, model.SeriesShortSeries, program.SeriesType)
	assert.Equal(t, user.ID, program.CreatedBy)
	assert.Equal(t, model.DefaultTotalMinutes, program.TotalMinutes)

	require.Len(t, loops, 3)
	for i, loop := range loops {
		assert.Equal(t, i+1, loop.Index)
		assert.Equal(t, program.ID, loop.ProgramID)
		assert.Equal(t, 15, loop.LearnMinutes)
	}

	stored, err := env.loops.ListByProgram(program.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestBuildSeriesNormalizesBadDurations(t *testing.T) {
	badDurations := `{"title": "Owning the Room", "learnText": "Presence is built...",
		"actText": "act", "earnText": "earn", "learnMinutes": 20, "actMinutes": 20, "earnMinutes": 20}`
	svc, env := newWorkflowFixture(t,
		`{"topic": "public speaking", "seriesType": "one_off"}`,
		badDurations)
	user := env.createUser(t)

	_, loops, err := svc.BuildSeries(user.ID, BuildSeriesRequest{Prompt: "presenting"})
	require.NoError(t, err)
	require.Len(t, loops, 1)
	assert.Equal(t, 15, loops[0].LearnMinutes)
	assert.Equal(t, 7, loops[0].ActMinutes)
	assert.Equal(t, 3, loops[0].EarnMinutes)
}

func TestBuildSeriesSurfacesMalformedCompose(t *testing.T) {
	svc, env := newWorkflowFixture(t,
		`{"topic": "public speaking", "seriesType": "one_off"}`,
		"not json at all")
	user := env.createUser(t)

	_, _, err := svc.BuildSeries(user.ID, BuildSeriesRequest{Prompt: "presenting"})
	assert.ErrorIs(t, err, util.ErrAIMalformedResponse)

	programs, err := env.programs.ListByCreator(user.ID)
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestWizardQuestions(t *testing.T) {
	questions := `[{"id": "q1", "question": "What is your goal?", "options": ["clarity", "confidence"]},
		{"id": "q2", "question": "Current level?", "options": ["new", "some practice"]}]`
	svc, _ := newWorkflowFixture(t, "", questions)

	got, err := svc.WizardQuestions(&Intent{Topic: "public speaking", Tone: "direct"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].ID)
	assert.Len(t, got[0].Options, 2)
}

package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
)

// WorkflowService drives the program-building pipeline: free-text intent is
// parsed into structured fields, wizard questions refine them, and the model
// composes one loop of content per series slot. Structured responses come
// back as JSON; anything the model returns that does not parse is surfaced
// as ErrAIMalformedResponse rather than guessed at.
type WorkflowService struct {
	AI          *AIService
	ProgramRepo *repository.ProgramRepository
	LoopRepo    *repository.LoopRepository
	Enrichment  *EnrichmentService
}

func NewWorkflowService(
	ai *AIService,
	programRepo *repository.ProgramRepository,
	loopRepo *repository.LoopRepository,
	enrichment *EnrichmentService,
) *WorkflowService {
	return &WorkflowService{
		AI:          ai,
		ProgramRepo: programRepo,
		LoopRepo:    loopRepo,
		Enrichment:  enrichment,
	}
}

// Intent is the structured reading of the user's free-text program request.
type Intent struct {
	Topic      string           `json:"topic"`
	Category   string           `json:"category"`
	Workspace  model.Workspace  `json:"workspace"`
	SeriesType model.SeriesType `json:"seriesType"`
	Tone       string           `json:"tone"`
}

const intentSystemPrompt = `You classify requests for 25-minute growth sessions.
Respond with ONLY a JSON object, no prose, no markdown fences:
{"topic": "...", "category": "...", "workspace": "professional"|"personal", "seriesType": "one_off"|"short_series"|"mid_series"|"long_series", "tone": "..."}
topic is a short noun phrase. category is one of: leadership, communication, wellness, productivity, creativity, relationships.
workspace is professional for work-related topics, personal otherwise.
seriesType reflects how much depth the request implies: one_off for a one-time session, short_series for a few sessions, mid_series for a habit, long_series for deep practice.
tone is one word, e.g. encouraging, direct, calm.`

// ParseIntent turns the user's free-text request into structured program
// fields, with sane fallbacks for anything the model leaves invalid.
func (s *WorkflowService) ParseIntent(prompt string) (*Intent, error) {
	raw, err := s.AI.Chat(intentSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal(extractJSON(raw), &intent); err != nil {
		logger.Log.Warn("intent response did not parse", zap.String("raw", raw), zap.Error(err))
		return nil, util.ErrAIMalformedResponse
	}

	if intent.Topic == "" {
		return nil, util.ErrAIMalformedResponse
	}
	if !intent.Workspace.Valid() {
		intent.Workspace = model.WorkspacePersonal
	}
	if !intent.SeriesType.Valid() {
		intent.SeriesType = model.SeriesOneOff
	}
	if intent.Tone == "" {
		intent.Tone = "encouraging"
	}
	return &intent, nil
}

// WizardQuestion is one refinement question shown before content is
// generated.
type WizardQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

const wizardSystemPrompt = `You design short onboarding wizards for growth programs.
Respond with ONLY a JSON array of 3 question objects, no prose, no markdown fences:
[{"id": "q1", "question": "...", "options": ["...", "..."]}]
Questions refine the user's goal, current level, and preferred style for the given topic.
Each question has 2-4 options.`

// WizardQuestions asks the model for refinement questions tailored to a
// parsed intent.
func (s *WorkflowService) WizardQuestions(intent *Intent) ([]WizardQuestion, error) {
	prompt := fmt.Sprintf("Topic: %s\nCategory: %s\nWorkspace: %s\nTone: %s",
		intent.Topic, intent.Category, intent.Workspace, intent.Tone)

	raw, err := s.AI.Chat(wizardSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var questions []WizardQuestion
	if err := json.Unmarshal(extractJSON(raw), &questions); err != nil {
		logger.Log.Warn("wizard response did not parse", zap.String("raw", raw), zap.Error(err))
		return nil, util.ErrAIMalformedResponse
	}
	if len(questions) == 0 {
		return nil, util.ErrAIMalformedResponse
	}
	return questions, nil
}

// loopContent is the model's composition for one loop.
type loopContent struct {
	Title        string `json:"title"`
	LearnText    string `json:"learnText"`
	ActText      string `json:"actText"`
	EarnText     string `json:"earnText"`
	LearnMinutes int    `json:"learnMinutes"`
	ActMinutes   int    `json:"actMinutes"`
	EarnMinutes  int    `json:"earnMinutes"`
}

const composeSystemPrompt = `You write content for 25-minute Learn/Act/Earn growth sessions.
Respond with ONLY a JSON object, no prose, no markdown fences:
{"title": "...", "learnText": "...", "actText": "...", "earnText": "...", "learnMinutes": 15, "actMinutes": 7, "earnMinutes": 3}
learnText teaches one concrete idea (200-350 words). actText is a hands-on exercise applying it (100-200 words). earnText is a reflection prompt (50-100 words).
The three minute values must sum to exactly 25 and each must be at least 1.`

// composeLoop generates one loop's content. Durations that do not sum to a
// full session fall back to the default 15/7/3 split.
func (s *WorkflowService) composeLoop(intent *Intent, answers []string, index, total int) (*loopContent, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nCategory: %s\nTone: %s\nSession %d of %d.\n",
		intent.Topic, intent.Category, intent.Tone, index+1, total)
	if len(answers) > 0 {
		fmt.Fprintf(&b, "User preferences: %s\n", strings.Join(answers, "; "))
	}
	if total > 1 {
		b.WriteString("Build on the previous sessions; do not repeat their content.")
	}

	raw, err := s.AI.Chat(composeSystemPrompt, b.String())
	if err != nil {
		return nil, err
	}

	var content loopContent
	if err := json.Unmarshal(extractJSON(raw), &content); err != nil {
		logger.Log.Warn("compose response did not parse", zap.String("raw", raw), zap.Error(err))
		return nil, util.ErrAIMalformedResponse
	}
	if content.Title == "" || content.LearnText == "" {
		return nil, util.ErrAIMalformedResponse
	}

	if content.LearnMinutes < 1 || content.ActMinutes < 1 || content.EarnMinutes < 1 ||
		content.LearnMinutes+content.ActMinutes+content.EarnMinutes != model.DefaultTotalMinutes {
		content.LearnMinutes, content.ActMinutes, content.EarnMinutes = 15, 7, 3
	}
	return &content, nil
}

// BuildSeriesRequest carries the wizard output into series generation.
type BuildSeriesRequest struct {
	Prompt  string   `json:"prompt" binding:"required"`
	Answers []string `json:"answers"`
}

// BuildSeries runs the full pipeline: parse the intent, compose one loop per
// series slot, persist the program with its loops, and kick off media
// enrichment in the background. Enrichment failures never block the series;
// the loops simply ship without audio or imagery.
func (s *WorkflowService) BuildSeries(userID uint, req BuildSeriesRequest) (*model.Program, []model.Loop, error) {
	intent, err := s.ParseIntent(req.Prompt)
	if err != nil {
		return nil, nil, err
	}
	return s.BuildSeriesFromIntent(userID, intent, req.Answers)
}

// BuildSeriesFromIntent is the second wizard step, used when the client
// already holds a parsed intent.
func (s *WorkflowService) BuildSeriesFromIntent(userID uint, intent *Intent, answers []string) (*model.Program, []model.Loop, error) {
	if !intent.SeriesType.Valid() {
		intent.SeriesType = model.SeriesOneOff
	}
	total := intent.SeriesType.LoopCount()

	contents := make([]*loopContent, 0, total)
	for i := 0; i < total; i++ {
		content, err := s.composeLoop(intent, answers, i, total)
		if err != nil {
			return nil, nil, err
		}
		contents = append(contents, content)
	}

	first := contents[0]
	program := &model.Program{
		Title:        first.Title,
		Topic:        intent.Topic,
		Category:     intent.Category,
		Workspace:    intent.Workspace,
		SeriesType:   intent.SeriesType,
		Tone:         intent.Tone,
		LearnMinutes: first.LearnMinutes,
		ActMinutes:   first.ActMinutes,
		EarnMinutes:  first.EarnMinutes,
		TotalMinutes: model.DefaultTotalMinutes,
		CreatedBy:    userID,
	}
	if err := s.ProgramRepo.Create(program); err != nil {
		return nil, nil, err
	}

	loops := make([]model.Loop, 0, total)
	for i, content := range contents {
		loop := model.Loop{
			ProgramID:    program.ID,
			Index:        i + 1,
			Title:        content.Title,
			LearnText:    content.LearnText,
			ActText:      content.ActText,
			EarnText:     content.EarnText,
			LearnMinutes: content.LearnMinutes,
			ActMinutes:   content.ActMinutes,
			EarnMinutes:  content.EarnMinutes,
		}
		if err := s.LoopRepo.Create(&loop); err != nil {
			return nil, nil, err
		}
		loops = append(loops, loop)
	}

	if s.Enrichment != nil {
		for i := range loops {
			go s.Enrichment.EnrichLoop(loops[i].ID)
		}
	}

	logger.Log.Info("series built",
		zap.Uint("program", program.ID),
		zap.String("topic", intent.Topic),
		zap.Int("loops", len(loops)),
	)
	return program, loops, nil
}

// extractJSON strips markdown fences and surrounding prose, returning the
// first JSON value in the text. Models wrap JSON in fences often enough that
// parsing the raw response directly is a losing game.
func extractJSON(raw string) []byte {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}

	objStart := strings.IndexAny(text, "{[")
	if objStart > 0 {
		text = text[objStart:]
	}
	return []byte(text)
}

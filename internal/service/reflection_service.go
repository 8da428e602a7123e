package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReflectionService handles the earn-phase writeups: persistence, best-effort
// AI sentiment scoring, and the reflection points award.
type ReflectionService struct {
	ReflectionRepo *repository.ReflectionRepository
	SessionRepo    *repository.SessionRepository
	UserRepo       *repository.UserRepository
	PointLogRepo   *repository.PointLogRepository
	AI             *AIService
	Rule           *PointsRule
}

func NewReflectionService(
	reflectionRepo *repository.ReflectionRepository,
	sessionRepo *repository.SessionRepository,
	userRepo *repository.UserRepository,
	pointLogRepo *repository.PointLogRepository,
	ai *AIService,
	rule *PointsRule,
) *ReflectionService {
	return &ReflectionService{
		ReflectionRepo: reflectionRepo,
		SessionRepo:    sessionRepo,
		UserRepo:       userRepo,
		PointLogRepo:   pointLogRepo,
		AI:             ai,
		Rule:           rule,
	}
}

type CreateReflectionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Sentiment string `json:"sentiment,omitempty"`
	Score     *int   `json:"score,omitempty"`
}

// ReflectionResult is the stored reflection plus its award.
type ReflectionResult struct {
	Reflection    *model.Reflection `json:"reflection"`
	PointsAwarded int               `json:"pointsAwarded"`
	Points        int               `json:"points"`
	Level         int               `json:"level"`
}

const sentimentSystemPrompt = `You score session reflections.
Respond with ONLY a JSON object, no prose, no markdown fences:
{"sentiment": "positive"|"neutral"|"negative", "score": 0-100}
score reflects depth and specificity of the reflection, not its mood.`

// Create stores a reflection for one of the user's sessions and awards
// points under the canonical rule. A client-supplied score wins; otherwise
// sentiment scoring is best effort, and a dead model means an unscored
// reflection, never a failed request.
func (s *ReflectionService) Create(userID uint, req CreateReflectionRequest) (*ReflectionResult, error) {
	session, err := s.SessionRepo.FindByID(req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}

	reflection := &model.Reflection{
		SessionID: session.ID,
		UserID:    userID,
		Content:   req.Content,
		Sentiment: req.Sentiment,
		Score:     clampScore(req.Score),
	}

	if reflection.Score == nil {
		if sentiment, score, err := s.analyze(req.Content); err != nil {
			logger.Log.Warn("reflection analysis failed", zap.String("session", session.ID), zap.Error(err))
		} else {
			if reflection.Sentiment == "" {
				reflection.Sentiment = sentiment
			}
			reflection.Score = &score
		}
	}

	if err := s.ReflectionRepo.Create(reflection); err != nil {
		return nil, err
	}

	award := s.Rule.ReflectionAward(reflection.Score)
	user, err := s.UserRepo.AwardPoints(userID, award, s.Rule.LevelFor)
	if err != nil {
		return nil, err
	}

	if err := s.PointLogRepo.Create(&model.PointLog{
		UserID:      userID,
		Source:      model.PointSourceReflection,
		Points:      award,
		ReferenceID: reflection.ID,
	}); err != nil {
		logger.Log.Error("failed to write point log", zap.Error(err))
	}
	monitoring.PointsAwarded.WithLabelValues(string(model.PointSourceReflection)).Add(float64(award))

	return &ReflectionResult{
		Reflection:    reflection,
		PointsAwarded: award,
		Points:        user.Points,
		Level:         user.Level,
	}, nil
}

func (s *ReflectionService) analyze(content string) (string, int, error) {
	raw, err := s.AI.Chat(sentimentSystemPrompt, content)
	if err != nil {
		return "", 0, err
	}

	var result struct {
		Sentiment string `json:"sentiment"`
		Score     int    `json:"score"`
	}
	if err := json.Unmarshal(extractJSON(raw), &result); err != nil {
		return "", 0, util.ErrAIMalformedResponse
	}
	if result.Score < 0 || result.Score > 100 {
		return "", 0, fmt.Errorf("score out of range: %d", result.Score)
	}
	return result.Sentiment, result.Score, nil
}

func (s *ReflectionService) ListByUser(userID uint, page, pageSize int) ([]model.Reflection, int64, error) {
	return s.ReflectionRepo.ListByUser(userID, page, pageSize)
}

func (s *ReflectionService) ListBySession(userID uint, sessionID string) ([]model.Reflection, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return s.ReflectionRepo.ListBySession(sessionID)
}

package service

import (
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	SessionRepo     *repository.SessionRepository
	UserRepo        *repository.UserRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	sessionRepo *repository.SessionRepository,
	userRepo *repository.UserRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		SessionRepo:     sessionRepo,
		UserRepo:        userRepo,
	}
}

// Evaluate checks the full catalog against the user's current counters and
// unlocks anything newly earned. Unlocking is idempotent, so re-evaluating
// after every completion is safe. Returns only the achievements unlocked by
// this call.
func (s *AchievementService) Evaluate(userID uint, streak int) ([]model.Achievement, error) {
	catalog, err := s.AchievementRepo.ListCatalog()
	if err != nil {
		return nil, err
	}

	completed, err := s.SessionRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	var unlocked []model.Achievement
	for _, a := range catalog {
		var met bool
		switch a.RequirementType {
		case model.RequirementSessionsCompleted:
			met = completed >= int64(a.RequirementCount)
		case model.RequirementPointsEarned:
			met = user.Points >= a.RequirementCount
		case model.RequirementStreakDays:
			met = streak >= a.RequirementCount
		}
		if !met {
			continue
		}

		fresh, err := s.AchievementRepo.Unlock(userID, a.ID)
		if err != nil {
			logger.Log.Error("failed to unlock achievement",
				zap.Uint("user", userID), zap.String("code", a.Code), zap.Error(err))
			continue
		}
		if fresh {
			unlocked = append(unlocked, a)
			logger.Log.Info("achievement unlocked",
				zap.Uint("user", userID), zap.String("code", a.Code))
		}
	}
	return unlocked, nil
}

// AchievementStatus is a catalog entry annotated with the user's unlock
// state.
type AchievementStatus struct {
	model.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// ListForUser returns the full catalog with per-user unlock state, unlocked
// entries first.
func (s *AchievementService) ListForUser(userID uint) ([]AchievementStatus, error) {
	catalog, err := s.AchievementRepo.ListCatalog()
	if err != nil {
		return nil, err
	}
	earned, err := s.AchievementRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[uint]time.Time, len(earned))
	for _, ua := range earned {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	statuses := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		status := AchievementStatus{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			status.Unlocked = true
			t := at
			status.UnlockedAt = &t
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

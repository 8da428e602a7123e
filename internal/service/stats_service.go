package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardKey  = "stats:leaderboard"
	leaderboardSize = 10
	leaderboardTTL  = time.Minute
)

// StatsService assembles the progress dashboard: streak, completion counts,
// points and level, and the cross-user leaderboard. The leaderboard is the
// one hot read, so it sits behind a short Redis TTL.
type StatsService struct {
	SessionRepo  *repository.SessionRepository
	UserRepo     *repository.UserRepository
	PointLogRepo *repository.PointLogRepository
	Rule         *PointsRule
	Redis        *redis.Client
}

func NewStatsService(
	sessionRepo *repository.SessionRepository,
	userRepo *repository.UserRepository,
	pointLogRepo *repository.PointLogRepository,
	rule *PointsRule,
	redisClient *redis.Client,
) *StatsService {
	return &StatsService{
		SessionRepo:  sessionRepo,
		UserRepo:     userRepo,
		PointLogRepo: pointLogRepo,
		Rule:         rule,
		Redis:        redisClient,
	}
}

// UserStats is the GET /stats payload.
type UserStats struct {
	Points            int              `json:"points"`
	Level             int              `json:"level"`
	NextLevelAt       int              `json:"nextLevelAt"`
	Streak            int              `json:"streak"`
	CompletedSessions int64            `json:"completedSessions"`
	RecentPoints      []model.PointLog `json:"recentPoints"`
	Leaderboard       []LeaderboardRow `json:"leaderboard"`
}

type LeaderboardRow struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

func (s *StatsService) GetUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	completed, err := s.SessionRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	times, err := s.SessionRepo.CompletedTimesByUser(userID)
	if err != nil {
		return nil, err
	}
	streak := ComputeStreak(times, time.Now())

	recent, _, err := s.PointLogRepo.ListByUser(userID, 1, 10)
	if err != nil {
		logger.Log.Warn("failed to load point history", zap.Uint("user", userID), zap.Error(err))
	}

	leaderboard, err := s.Leaderboard(ctx)
	if err != nil {
		logger.Log.Warn("failed to load leaderboard", zap.Error(err))
	}

	return &UserStats{
		Points:            user.Points,
		Level:             user.Level,
		NextLevelAt:       s.Rule.NextLevelAt(user.Points),
		Streak:            streak,
		CompletedSessions: completed,
		RecentPoints:      recent,
		Leaderboard:       leaderboard,
	}, nil
}

// Leaderboard returns the top users by points, cached for a minute.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardKey).Result(); err == nil {
			var rows []LeaderboardRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByPoints(leaderboardSize)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, LeaderboardRow{
			UserID: u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: u.Points,
			Level:  u.Level,
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.Redis.Set(ctx, leaderboardKey, data, leaderboardTTL).Err(); err != nil {
				logger.Log.Debug("failed to cache leaderboard", zap.Error(err))
			}
		}
	}
	return rows, nil
}

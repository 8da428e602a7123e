package repository

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) ListCatalog() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("requirement_type, requirement_count").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.UserAchievement, error) {
	var unlocked []model.UserAchievement
	err := r.DB.Preload("Achievement").Where("user_id = ?", userID).
		Order("unlocked_at DESC").Find(&unlocked).Error
	return unlocked, err
}

// Unlock records an achievement for a user. Re-unlocking is a no-op, backed
// by the unique (user, achievement) index.
func (r *AchievementRepository) Unlock(userID, achievementID uint) (bool, error) {
	var existing model.UserAchievement
	err := r.DB.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	ua := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	if err := r.DB.Create(&ua).Error; err != nil {
		// A racing unlock hit the unique index first; treat as already done.
		return false, nil
	}
	return true, nil
}

package repository

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted upserts the completion marker for (user, program).
func (r *ProgressRepository) MarkCompleted(userID, programID uint) error {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND program_id = ?", userID, programID).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := time.Now()
		progress = model.Progress{
			UserID:      userID,
			ProgramID:   programID,
			Completed:   true,
			CompletedAt: &now,
		}
		return r.DB.Create(&progress).Error
	}

	if progress.Completed {
		return nil
	}
	now := time.Now()
	progress.Completed = true
	progress.CompletedAt = &now
	return r.DB.Save(&progress).Error
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

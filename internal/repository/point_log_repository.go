package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type PointLogRepository struct {
	DB *gorm.DB
}

func NewPointLogRepository(db *gorm.DB) *PointLogRepository {
	return &PointLogRepository{DB: db}
}

func (r *PointLogRepository) Create(entry *model.PointLog) error {
	return r.DB.Create(entry).Error
}

func (r *PointLogRepository) ListByUser(userID uint, page, pageSize int) ([]model.PointLog, int64, error) {
	var entries []model.PointLog
	var total int64

	query := r.DB.Model(&model.PointLog{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}

// SumByUsers totals awarded points across a set of users (org analytics).
func (r *PointLogRepository) SumByUsers(userIDs []uint) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.DB.Model(&model.PointLog{}).Where("user_id IN ?", userIDs).
		Select("COALESCE(SUM(points), 0)").Scan(&total).Error
	return total, err
}

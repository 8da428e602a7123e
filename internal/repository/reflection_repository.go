package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type ReflectionRepository struct {
	DB *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{DB: db}
}

func (r *ReflectionRepository) Create(reflection *model.Reflection) error {
	return r.DB.Create(reflection).Error
}

func (r *ReflectionRepository) FindBySessionID(sessionID string) (*model.Reflection, error) {
	var reflection model.Reflection
	err := r.DB.Where("session_id = ?", sessionID).First(&reflection).Error
	if err != nil {
		return nil, err
	}
	return &reflection, nil
}

func (r *ReflectionRepository) ListBySession(sessionID string) ([]model.Reflection, error) {
	var reflections []model.Reflection
	err := r.DB.Where("session_id = ?", sessionID).Order("created_at").Find(&reflections).Error
	return reflections, err
}

func (r *ReflectionRepository) ListByUser(userID uint, page, pageSize int) ([]model.Reflection, int64, error) {
	var reflections []model.Reflection
	var total int64

	query := r.DB.Model(&model.Reflection{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&reflections).Error
	return reflections, total, err
}

package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type LoopRepository struct {
	DB *gorm.DB
}

func NewLoopRepository(db *gorm.DB) *LoopRepository {
	return &LoopRepository{DB: db}
}

func (r *LoopRepository) Create(loop *model.Loop) error {
	return r.DB.Create(loop).Error
}

func (r *LoopRepository) FindByID(id string) (*model.Loop, error) {
	var loop model.Loop
	err := r.DB.First(&loop, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loop, nil
}

func (r *LoopRepository) Update(loop *model.Loop) error {
	return r.DB.Save(loop).Error
}

func (r *LoopRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.DB.Model(&model.Loop{}).Where("id = ?", id).Updates(fields).Error
}

func (r *LoopRepository) ListByProgram(programID uint) ([]model.Loop, error) {
	var loops []model.Loop
	err := r.DB.Where("program_id = ?", programID).Order("`index`").Find(&loops).Error
	return loops, err
}

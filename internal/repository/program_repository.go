package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) Create(program *model.Program) error {
	return r.DB.Create(program).Error
}

func (r *ProgramRepository) FindByID(id uint) (*model.Program, error) {
	var program model.Program
	err := r.DB.First(&program, id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) Update(program *model.Program) error {
	return r.DB.Save(program).Error
}

func (r *ProgramRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Program{}, id).Error
}

func (r *ProgramRepository) ListByWorkspace(workspace model.Workspace, page, pageSize int) ([]model.Program, int64, error) {
	var programs []model.Program
	var total int64

	query := r.DB.Model(&model.Program{}).Where("workspace = ?", workspace)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&programs).Error
	return programs, total, err
}

func (r *ProgramRepository) ListByCreator(userID uint) ([]model.Program, error) {
	var programs []model.Program
	err := r.DB.Where("created_by = ?", userID).Order("created_at DESC").Find(&programs).Error
	return programs, err
}

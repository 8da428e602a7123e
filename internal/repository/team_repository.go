package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

func (r *TeamRepository) Create(team *model.Team) error {
	return r.DB.Create(team).Error
}

func (r *TeamRepository) FindByID(id uint) (*model.Team, error) {
	var team model.Team
	err := r.DB.First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) Update(team *model.Team) error {
	return r.DB.Save(team).Error
}

func (r *TeamRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Team{}, id).Error
}

func (r *TeamRepository) ListByOrganization(orgID uint) ([]model.Team, error) {
	var teams []model.Team
	err := r.DB.Where("organization_id = ?", orgID).Order("name").Find(&teams).Error
	return teams, err
}

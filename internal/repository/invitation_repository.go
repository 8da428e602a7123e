package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{DB: db}
}

func (r *InvitationRepository) Create(inv *model.Invitation) error {
	return r.DB.Create(inv).Error
}

func (r *InvitationRepository) FindByToken(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) Update(inv *model.Invitation) error {
	return r.DB.Save(inv).Error
}

func (r *InvitationRepository) ListByOrganization(orgID uint) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.DB.Where("organization_id = ?", orgID).Order("created_at DESC").Find(&invs).Error
	return invs, err
}

package repository

import (
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.DB.Create(org).Error
}

func (r *OrganizationRepository) FindByID(id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.First(&org, id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(org *model.Organization) error {
	return r.DB.Save(org).Error
}

func (r *OrganizationRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Organization{}, id).Error
}

func (r *OrganizationRepository) List(page, pageSize int) ([]model.Organization, int64, error) {
	var orgs []model.Organization
	var total int64

	r.DB.Model(&model.Organization{}).Count(&total)

	offset := (page - 1) * pageSize
	err := r.DB.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orgs).Error
	return orgs, total, err
}

package repository

import (
	"strings"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type TopicVideoRepository struct {
	DB *gorm.DB
}

func NewTopicVideoRepository(db *gorm.DB) *TopicVideoRepository {
	return &TopicVideoRepository{DB: db}
}

// FindByTopic looks a topic up in the curated catalog, falling back to a
// substring match so "time management basics" still hits "time management".
func (r *TopicVideoRepository) FindByTopic(topic string) (*model.TopicVideo, error) {
	normalized := strings.ToLower(strings.TrimSpace(topic))

	var video model.TopicVideo
	err := r.DB.Where("topic = ? AND enabled = ?", normalized, true).First(&video).Error
	if err == nil {
		return &video, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = r.DB.Where("? LIKE CONCAT('%', topic, '%') AND enabled = ?", normalized, true).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *TopicVideoRepository) List() ([]model.TopicVideo, error) {
	var videos []model.TopicVideo
	err := r.DB.Where("enabled = ?", true).Order("topic").Find(&videos).Error
	return videos, err
}

package repository

import (
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Preload("Loop").First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(session *model.Session) error {
	return r.DB.Save(session).Error
}

// UpdateFields applies a partial update without touching other columns.
func (r *SessionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.DB.Model(&model.Session{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SessionRepository) FindActiveByUser(userID uint) ([]model.Session, error) {
	var sessions []model.Session
	err := r.DB.Where("user_id = ? AND status IN ?", userID,
		[]model.SessionStatus{model.SessionInProgress, model.SessionPaused}).
		Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

// FindAllActive returns every non-completed session across users, with loops
// preloaded so countdowns can be rebuilt after a restart.
func (r *SessionRepository) FindAllActive() ([]model.Session, error) {
	var sessions []model.Session
	err := r.DB.Preload("Loop").
		Where("status IN ?", []model.SessionStatus{model.SessionInProgress, model.SessionPaused}).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListByUser(userID uint, page, pageSize int) ([]model.Session, int64, error) {
	var sessions []model.Session
	var total int64

	query := r.DB.Model(&model.Session{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("started_at DESC").Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Session{}).
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Count(&count).Error
	return count, err
}

// CompletedTimesByUser returns completion timestamps, newest first, for the
// streak walk. One year of daily sessions fits well under the cap.
func (r *SessionRepository) CompletedTimesByUser(userID uint) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.Model(&model.Session{}).
		Where("user_id = ? AND status = ? AND completed_at IS NOT NULL", userID, model.SessionCompleted).
		Order("completed_at DESC").Limit(400).
		Pluck("completed_at", &times).Error
	return times, err
}

// CountCompletedSince counts completed sessions for org analytics.
func (r *SessionRepository) CountCompletedSince(userIDs []uint, since time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Session{}).
		Where("user_id IN ? AND status = ? AND completed_at >= ?", userIDs, model.SessionCompleted, since).
		Count(&count).Error
	return count, err
}

// CountUsersCompletedSince counts distinct users with a completed session
// on or after the cutoff, used as the active-streak rollup.
func (r *SessionRepository) CountUsersCompletedSince(userIDs []uint, since time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Session{}).
		Distinct("user_id").
		Where("user_id IN ? AND status = ? AND completed_at >= ?", userIDs, model.SessionCompleted, since).
		Count(&count).Error
	return count, err
}

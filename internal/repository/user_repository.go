package repository

import (
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"gorm.io/gorm"
)

// awardRetries bounds the optimistic retry loop on points updates.
const awardRetries = 5

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

func (r *UserRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("disabled = ?", false).
		Order("points DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByOrganization(orgID uint, page, pageSize int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{}).Where("organization_id = ?", orgID)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error
	return users, total, err
}

// AwardPoints adds delta to the user's points and recomputes the level, using
// a compare-and-swap on the current points value so two concurrent awards
// cannot lose an update. levelFor must be the canonical points→level rule.
func (r *UserRepository) AwardPoints(userID uint, delta int, levelFor func(points int) int) (*model.User, error) {
	for i := 0; i < awardRetries; i++ {
		var user model.User
		if err := r.DB.First(&user, userID).Error; err != nil {
			return nil, err
		}

		newPoints := user.Points + delta
		if newPoints < 0 {
			newPoints = 0
		}
		newLevel := levelFor(newPoints)

		res := r.DB.Model(&model.User{}).
			Where("id = ? AND points = ?", userID, user.Points).
			Updates(map[string]interface{}{"points": newPoints, "level": newLevel})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			user.Points = newPoints
			user.Level = newLevel
			return &user, nil
		}
		// Someone else moved points between our read and write; re-read.
	}
	return nil, util.ErrPointsConflict
}

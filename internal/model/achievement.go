package model

import "time"

type RequirementType string

const (
	RequirementSessionsCompleted RequirementType = "sessions_completed"
	RequirementPointsEarned      RequirementType = "points_earned"
	RequirementStreakDays        RequirementType = "streak_days"
)

// Achievement is a catalog entry: unlock when the requirement counter
// reaches RequirementCount.
type Achievement struct {
	BaseModel
	Code             string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name             string          `gorm:"size:100;not null" json:"name"`
	Description      string          `gorm:"size:255" json:"description"`
	Icon             string          `gorm:"size:50" json:"icon"`
	RequirementType  RequirementType `gorm:"type:enum('sessions_completed','points_earned','streak_days');not null" json:"requirementType"`
	RequirementCount int             `gorm:"not null" json:"requirementCount"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an unlock. The unique pair makes re-evaluation
// idempotent.
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"userId"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"achievementId"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

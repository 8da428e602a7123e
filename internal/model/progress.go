package model

import "time"

// Progress marks a user's completion of a program.
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_user_program,unique;type:bigint unsigned;not null" json:"userId"`
	ProgramID   uint       `gorm:"index:idx_user_program,unique;type:bigint unsigned;not null" json:"programId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}

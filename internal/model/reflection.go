package model

// Reflection is a free-text note attached to a completed session. A score
// above the configured cutoff earns a points bonus.
// swagger:model
type Reflection struct {
	UUIDBase
	SessionID string `gorm:"size:36;index;not null" json:"sessionId"`
	UserID    uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Content   string `gorm:"type:text" json:"content"`
	Sentiment string `gorm:"size:50" json:"sentiment,omitempty"`
	Score     *int   `json:"score,omitempty"` // 0-100, optional

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reflection) TableName() string {
	return "reflections"
}

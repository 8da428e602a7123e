package model

type PointSource string

const (
	PointSourceSession    PointSource = "session_completion"
	PointSourceReflection PointSource = "reflection"
)

// PointLog is the append-only ledger of every award, so a user's points
// total can always be audited against its history.
type PointLog struct {
	BaseModel
	UserID      uint        `gorm:"index:idx_pointlog_user_date,priority:1;type:bigint unsigned;not null" json:"userId"`
	Source      PointSource `gorm:"size:50;not null" json:"source"`
	Points      int         `gorm:"not null" json:"points"`
	ReferenceID string      `gorm:"size:36" json:"referenceId"` // session or reflection ID
}

func (PointLog) TableName() string {
	return "point_logs"
}

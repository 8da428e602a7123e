package model

import "time"

type Phase string

const (
	PhaseLearn Phase = "learn"
	PhaseAct   Phase = "act"
	PhaseEarn  Phase = "earn"
)

// NextPhase returns the successor phase. The order is fixed:
// learn → act → earn; earn has no successor.
func NextPhase(p Phase) (Phase, bool) {
	switch p {
	case PhaseLearn:
		return PhaseAct, true
	case PhaseAct:
		return PhaseEarn, true
	}
	return "", false
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionPaused     SessionStatus = "paused"
	SessionCompleted  SessionStatus = "completed"
)

// Session tracks one run through a loop's Learn/Act/Earn phases. Either
// LoopID or ProgramID is set; ProgramID alone is the legacy path kept for
// clients that predate loops.
// swagger:model Session
type Session struct {
	UUIDBase
	UserID        uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	LoopID        *string       `gorm:"size:36;index" json:"loopId,omitempty"`
	ProgramID     *uint         `gorm:"index" json:"programId,omitempty"`
	Status        SessionStatus `gorm:"type:enum('in_progress','paused','completed');default:'in_progress'" json:"status"`
	Phase         Phase         `gorm:"type:enum('learn','act','earn');default:'learn'" json:"phase"`
	TimeRemaining int           `gorm:"default:0" json:"timeRemaining"` // seconds left in the current phase
	Workspace     Workspace     `gorm:"type:enum('professional','personal');default:'professional'" json:"workspace"`
	StartedAt     time.Time     `gorm:"not null" json:"startedAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`

	Loop *Loop `gorm:"foreignKey:LoopID" json:"loop,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Completed() bool {
	return s.Status == SessionCompleted
}

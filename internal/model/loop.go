package model

// Loop is one concrete instance of a program: the Learn/Act/Earn text and the
// optional media enrichments for a single guided session. Enrichment fields
// stay empty when generation fails; core content never depends on them.
// swagger:model Loop
type Loop struct {
	UUIDBase
	ProgramID uint   `gorm:"index;type:bigint unsigned;not null" json:"programId"`
	Index     int    `gorm:"default:1" json:"index"` // 1-based position in the series
	Title     string `gorm:"size:200;not null" json:"title"`

	LearnText string `gorm:"type:text" json:"learnText"`
	ActText   string `gorm:"type:text" json:"actText"`
	EarnText  string `gorm:"type:text" json:"earnText"`

	LearnMinutes int `gorm:"default:10" json:"learnMinutes"`
	ActMinutes   int `gorm:"default:10" json:"actMinutes"`
	EarnMinutes  int `gorm:"default:5" json:"earnMinutes"`

	LearnAudioURL string `gorm:"size:255" json:"learnAudioUrl,omitempty"`
	ActAudioURL   string `gorm:"size:255" json:"actAudioUrl,omitempty"`
	EarnAudioURL  string `gorm:"size:255" json:"earnAudioUrl,omitempty"`
	AudioSeconds  int    `gorm:"default:0" json:"audioSeconds,omitempty"`
	VideoURL      string `gorm:"size:255" json:"videoUrl,omitempty"`
	ImageURL      string `gorm:"size:255" json:"imageUrl,omitempty"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

func (Loop) TableName() string {
	return "loops"
}

// PhaseMinutes returns the duration allocated to a phase.
func (l *Loop) PhaseMinutes(p Phase) int {
	switch p {
	case PhaseLearn:
		return l.LearnMinutes
	case PhaseAct:
		return l.ActMinutes
	case PhaseEarn:
		return l.EarnMinutes
	}
	return 0
}

// PhaseText returns the content for a phase.
func (l *Loop) PhaseText(p Phase) string {
	switch p {
	case PhaseLearn:
		return l.LearnText
	case PhaseAct:
		return l.ActText
	case PhaseEarn:
		return l.EarnText
	}
	return ""
}

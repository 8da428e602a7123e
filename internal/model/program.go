package model

// DefaultTotalMinutes is the canonical session length.
const DefaultTotalMinutes = 25

// SeriesType classifies a program's cadence and controls how many loops the
// series contains.
type SeriesType string

const (
	SeriesOneOff      SeriesType = "one_off"
	SeriesShortSeries SeriesType = "short_series"
	SeriesMidSeries   SeriesType = "mid_series"
	SeriesLongSeries  SeriesType = "long_series"
)

// LoopCount returns the number of loops a series of this type holds.
func (s SeriesType) LoopCount() int {
	switch s {
	case SeriesShortSeries:
		return 3
	case SeriesMidSeries:
		return 5
	case SeriesLongSeries:
		return 10
	default:
		return 1
	}
}

func (s SeriesType) Valid() bool {
	switch s {
	case SeriesOneOff, SeriesShortSeries, SeriesMidSeries, SeriesLongSeries:
		return true
	}
	return false
}

// Program allocates a total session length (canonically 25 minutes) across
// the learn, act and earn phases.
// swagger:model Program
type Program struct {
	BaseModel
	Title        string     `gorm:"size:200;not null" json:"title"`
	Topic        string     `gorm:"size:100;index" json:"topic"`
	Category     string     `gorm:"size:100" json:"category"`
	Workspace    Workspace  `gorm:"type:enum('professional','personal');default:'professional'" json:"workspace"`
	SeriesType   SeriesType `gorm:"type:enum('one_off','short_series','mid_series','long_series');default:'one_off'" json:"seriesType"`
	Tone         string     `gorm:"size:50" json:"tone"`
	LearnMinutes int        `gorm:"default:10" json:"learnMinutes"`
	ActMinutes   int        `gorm:"default:10" json:"actMinutes"`
	EarnMinutes  int        `gorm:"default:5" json:"earnMinutes"`
	TotalMinutes int        `gorm:"default:25" json:"totalMinutes"`
	CreatedBy    uint       `gorm:"type:bigint unsigned" json:"createdBy"`
}

func (Program) TableName() string {
	return "programs"
}

// DurationsValid reports whether the phase allocation sums to the total.
func (p *Program) DurationsValid() bool {
	return p.LearnMinutes >= 0 && p.ActMinutes >= 0 && p.EarnMinutes >= 0 &&
		p.LearnMinutes+p.ActMinutes+p.EarnMinutes == p.TotalMinutes
}

package model

// TopicVideo is a curated topic→video mapping seeded at migration time.
// Loop generation looks topics up here; a miss leaves the loop without video.
type TopicVideo struct {
	BaseModel
	Topic   string `gorm:"size:100;uniqueIndex;not null" json:"topic"`
	Title   string `gorm:"size:200" json:"title"`
	URL     string `gorm:"size:255;not null" json:"url"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

func (TopicVideo) TableName() string {
	return "topic_videos"
}

package database

import (
	"fmt"
	"log"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

// Migrate runs the schema migration and seeds the reference catalogs.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Organization{},
		&model.Team{},
		&model.Invitation{},
		&model.Program{},
		&model.Loop{},
		&model.Session{},
		&model.Reflection{},
		&model.Progress{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.ChatMessage{},
		&model.PointLog{},
		&model.TopicVideo{},
	)
	if err != nil {
		return err
	}

	seedAchievements(db)
	seedTopicVideos(db)
	return nil
}

func seedAchievements(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Achievement{
		{Code: "first_loop", Name: "First Loop", Description: "Complete your first session", Icon: "sparkles", RequirementType: model.RequirementSessionsCompleted, RequirementCount: 1},
		{Code: "ten_loops", Name: "Getting Into It", Description: "Complete 10 sessions", Icon: "flame", RequirementType: model.RequirementSessionsCompleted, RequirementCount: 10},
		{Code: "fifty_loops", Name: "Loop Veteran", Description: "Complete 50 sessions", Icon: "trophy", RequirementType: model.RequirementSessionsCompleted, RequirementCount: 50},
		{Code: "thousand_points", Name: "Point Collector", Description: "Earn 1000 points", Icon: "star", RequirementType: model.RequirementPointsEarned, RequirementCount: 1000},
		{Code: "five_thousand_points", Name: "High Roller", Description: "Earn 5000 points", Icon: "gem", RequirementType: model.RequirementPointsEarned, RequirementCount: 5000},
		{Code: "week_streak", Name: "Seven Days Strong", Description: "Keep a 7-day streak", Icon: "calendar", RequirementType: model.RequirementStreakDays, RequirementCount: 7},
		{Code: "month_streak", Name: "Habit Formed", Description: "Keep a 30-day streak", Icon: "crown", RequirementType: model.RequirementStreakDays, RequirementCount: 30},
	}
	for _, a := range defaults {
		db.Create(&a)
	}
}

func seedTopicVideos(db *gorm.DB) {
	var count int64
	db.Model(&model.TopicVideo{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.TopicVideo{
		{Topic: "time management", Title: "The Philosophy of Time Management", URL: "https://www.youtube.com/watch?v=fLJsdqxnZb0"},
		{Topic: "public speaking", Title: "The 110 Techniques of Communication", URL: "https://www.youtube.com/watch?v=K0pxo-dS9Hc"},
		{Topic: "mindfulness", Title: "All It Takes Is 10 Mindful Minutes", URL: "https://www.youtube.com/watch?v=qzR62JJCMBQ"},
		{Topic: "leadership", Title: "How Great Leaders Inspire Action", URL: "https://www.youtube.com/watch?v=qp0HIF3SfI4"},
		{Topic: "habits", Title: "The Power of Habit", URL: "https://www.youtube.com/watch?v=OMbsGBlpP30"},
		{Topic: "focus", Title: "How to Get Your Brain to Focus", URL: "https://www.youtube.com/watch?v=Hu4Yvq-g7_Y"},
		{Topic: "stress", Title: "How to Make Stress Your Friend", URL: "https://www.youtube.com/watch?v=RcGyVTAoXEU"},
	}
	for _, v := range defaults {
		db.Create(&v)
	}
}

package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// The production schema uses MySQL enum columns, which sqlite's DDL grammar
// rejects, so tests create their own sqlite-compatible tables instead of
// automigrating the models. Column names and defaults mirror the model tags.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT DEFAULT 'member',
		points INTEGER DEFAULT 0,
		level INTEGER DEFAULT 1,
		current_workspace TEXT DEFAULT 'professional',
		avatar TEXT,
		organization_id INTEGER,
		team_id INTEGER,
		disabled BOOLEAN DEFAULT 0,
		last_login DATETIME,
		last_seen DATETIME
	)`,
	`CREATE TABLE programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		title TEXT NOT NULL,
		topic TEXT,
		category TEXT,
		workspace TEXT DEFAULT 'professional',
		series_type TEXT DEFAULT 'one_off',
		tone TEXT,
		learn_minutes INTEGER DEFAULT 10,
		act_minutes INTEGER DEFAULT 10,
		earn_minutes INTEGER DEFAULT 5,
		total_minutes INTEGER DEFAULT 25,
		created_by INTEGER
	)`,
	`CREATE TABLE loops (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		program_id INTEGER NOT NULL,
		"index" INTEGER DEFAULT 1,
		title TEXT NOT NULL,
		learn_text TEXT, act_text TEXT, earn_text TEXT,
		learn_minutes INTEGER DEFAULT 10,
		act_minutes INTEGER DEFAULT 10,
		earn_minutes INTEGER DEFAULT 5,
		learn_audio_url TEXT, act_audio_url TEXT, earn_audio_url TEXT,
		audio_seconds INTEGER DEFAULT 0,
		video_url TEXT, image_url TEXT
	)`,
	`CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		loop_id TEXT,
		program_id INTEGER,
		status TEXT DEFAULT 'in_progress',
		phase TEXT DEFAULT 'learn',
		time_remaining INTEGER DEFAULT 0,
		workspace TEXT DEFAULT 'professional',
		started_at DATETIME NOT NULL,
		completed_at DATETIME
	)`,
	`CREATE TABLE reflections (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		session_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		content TEXT,
		sentiment TEXT,
		score INTEGER
	)`,
	`CREATE TABLE progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		program_id INTEGER NOT NULL,
		completed BOOLEAN DEFAULT 0,
		completed_at DATETIME,
		UNIQUE (user_id, program_id)
	)`,
	`CREATE TABLE point_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		source TEXT NOT NULL,
		points INTEGER NOT NULL,
		reference_id TEXT
	)`,
	`CREATE TABLE achievements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		icon TEXT,
		requirement_type TEXT NOT NULL,
		requirement_count INTEGER NOT NULL
	)`,
	`CREATE TABLE chat_messages (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		workspace TEXT DEFAULT 'professional',
		role TEXT NOT NULL,
		content TEXT
	)`,
	`CREATE TABLE organizations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		name TEXT NOT NULL,
		domain TEXT,
		logo TEXT
	)`,
	`CREATE TABLE teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		organization_id INTEGER NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE invitations (
		id TEXT PRIMARY KEY,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		organization_id INTEGER NOT NULL,
		team_id INTEGER,
		email TEXT NOT NULL,
		role TEXT DEFAULT 'member',
		token TEXT NOT NULL UNIQUE,
		invited_by INTEGER,
		expires_at DATETIME NOT NULL,
		accepted_at DATETIME
	)`,
	`CREATE TABLE user_achievements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL,
		achievement_id INTEGER NOT NULL,
		unlocked_at DATETIME NOT NULL,
		UNIQUE (user_id, achievement_id)
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// testEnv wires the repositories and the session service over one test
// database, the same way app wiring does in production.
type testEnv struct {
	db           *gorm.DB
	sessions     *repository.SessionRepository
	loops        *repository.LoopRepository
	programs     *repository.ProgramRepository
	users        *repository.UserRepository
	progress     *repository.ProgressRepository
	pointLogs    *repository.PointLogRepository
	reflections  *repository.ReflectionRepository
	achievements *repository.AchievementRepository
	svc          *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:           db,
		sessions:     repository.NewSessionRepository(db),
		loops:        repository.NewLoopRepository(db),
		programs:     repository.NewProgramRepository(db),
		users:        repository.NewUserRepository(db),
		progress:     repository.NewProgressRepository(db),
		pointLogs:    repository.NewPointLogRepository(db),
		reflections:  repository.NewReflectionRepository(db),
		achievements: repository.NewAchievementRepository(db),
	}

	achievementSvc := NewAchievementService(env.achievements, env.sessions, env.users)
	env.svc = NewSessionService(
		env.sessions, env.loops, env.programs, env.users,
		env.progress, env.pointLogs, env.reflections,
		achievementSvc, NewPointsRule(config.GamificationConfig{}),
	)
	t.Cleanup(env.svc.Shutdown)
	return env
}

var testUserSeq int

func (e *testEnv) createUser(t *testing.T) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Name:     fmt.Sprintf("user-%d", testUserSeq),
		Email:    fmt.Sprintf("user-%d@example.com", testUserSeq),
		Password: "hashed",
		Role:     model.Member,
		Level:    1,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createLoop(t *testing.T, learn, act, earn int) *model.Loop {
	t.Helper()
	program := &model.Program{
		Title:        "Deep Work Basics",
		Topic:        "focus",
		Workspace:    model.WorkspaceProfessional,
		SeriesType:   model.SeriesOneOff,
		LearnMinutes: learn,
		ActMinutes:   act,
		EarnMinutes:  earn,
		TotalMinutes: learn + act + earn,
	}
	require.NoError(t, e.programs.Create(program))

	loop := &model.Loop{
		ProgramID:    program.ID,
		Index:        1,
		Title:        program.Title,
		LearnText:    "learn",
		ActText:      "act",
		EarnText:     "earn",
		LearnMinutes: learn,
		ActMinutes:   act,
		EarnMinutes:  earn,
	}
	require.NoError(t, e.loops.Create(loop))
	// Zero-valued fields with column defaults are skipped on insert; pin the
	// durations so zero-length phases survive.
	require.NoError(t, e.loops.UpdateFields(loop.ID, map[string]interface{}{
		"learn_minutes": learn,
		"act_minutes":   act,
		"earn_minutes":  earn,
	}))
	return loop
}

// seedCompletedSession inserts a finished session dated daysAgo, for streak
// and achievement scenarios.
func (e *testEnv) seedCompletedSession(t *testing.T, userID uint, loop *model.Loop, daysAgo int) {
	t.Helper()
	completed := time.Now().AddDate(0, 0, -daysAgo)
	started := completed.Add(-25 * time.Minute)
	session := &model.Session{
		UserID:      userID,
		LoopID:      &loop.ID,
		ProgramID:   &loop.ProgramID,
		Status:      model.SessionCompleted,
		Phase:       model.PhaseEarn,
		Workspace:   model.WorkspaceProfessional,
		StartedAt:   started,
		CompletedAt: &completed,
	}
	require.NoError(t, e.sessions.Create(session))
}

package service

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns the Learn/Act/Earn session lifecycle: the linear phase
// machine (learn → act → earn → completed), the server-side countdowns, and
// the completion side effects (points award, progress marker, achievement
// evaluation). Completion is idempotent; the award path is the single
// canonical rule in PointsRule.
type SessionService struct {
	SessionRepo    *repository.SessionRepository
	LoopRepo       *repository.LoopRepository
	ProgramRepo    *repository.ProgramRepository
	UserRepo       *repository.UserRepository
	ProgressRepo   *repository.ProgressRepository
	PointLogRepo   *repository.PointLogRepository
	ReflectionRepo *repository.ReflectionRepository
	Achievements   *AchievementService
	Rule           *PointsRule

	timers *timerRegistry
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	loopRepo *repository.LoopRepository,
	programRepo *repository.ProgramRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	pointLogRepo *repository.PointLogRepository,
	reflectionRepo *repository.ReflectionRepository,
	achievements *AchievementService,
	rule *PointsRule,
) *SessionService {
	s := &SessionService{
		SessionRepo:    sessionRepo,
		LoopRepo:       loopRepo,
		ProgramRepo:    programRepo,
		UserRepo:       userRepo,
		ProgressRepo:   progressRepo,
		PointLogRepo:   pointLogRepo,
		ReflectionRepo: reflectionRepo,
		Achievements:   achievements,
		Rule:           rule,
	}
	s.timers = newTimerRegistry(s)
	return s
}

// phaseDurations carries the per-phase allocation in minutes, resolved from
// the session's loop or, on the legacy path, its program.
type phaseDurations struct {
	learn, act, earn int
}

func (d phaseDurations) minutes(p model.Phase) int {
	switch p {
	case model.PhaseLearn:
		return d.learn
	case model.PhaseAct:
		return d.act
	case model.PhaseEarn:
		return d.earn
	}
	return 0
}

// firstRunnablePhase returns the first phase with a nonzero duration.
// Zero-duration phases are skipped outright rather than ticked through.
func firstRunnablePhase(d phaseDurations) (model.Phase, int, bool) {
	for p := model.PhaseLearn; ; {
		if mins := d.minutes(p); mins > 0 {
			return p, mins * 60, true
		}
		next, ok := model.NextPhase(p)
		if !ok {
			return "", 0, false
		}
		p = next
	}
}

// nextRunnablePhase returns the next phase after `after` with a nonzero
// duration, skipping empty ones.
func nextRunnablePhase(d phaseDurations, after model.Phase) (model.Phase, int, bool) {
	p := after
	for {
		next, ok := model.NextPhase(p)
		if !ok {
			return "", 0, false
		}
		if mins := d.minutes(next); mins > 0 {
			return next, mins * 60, true
		}
		p = next
	}
}

func (s *SessionService) durationsFor(session *model.Session) (phaseDurations, error) {
	if session.LoopID != nil {
		loop := session.Loop
		if loop == nil {
			var err error
			loop, err = s.LoopRepo.FindByID(*session.LoopID)
			if err != nil {
				return phaseDurations{}, util.ErrLoopNotFound
			}
			session.Loop = loop
		}
		return phaseDurations{learn: loop.LearnMinutes, act: loop.ActMinutes, earn: loop.EarnMinutes}, nil
	}
	if session.ProgramID != nil {
		program, err := s.ProgramRepo.FindByID(*session.ProgramID)
		if err != nil {
			return phaseDurations{}, util.ErrProgramNotFound
		}
		return phaseDurations{learn: program.LearnMinutes, act: program.ActMinutes, earn: program.EarnMinutes}, nil
	}
	return phaseDurations{}, util.ErrLoopNotFound
}

// Start begins a session for a loop, starting the countdown at the first
// runnable phase. A loop whose phases are all zero-length completes on the
// spot.
func (s *SessionService) Start(userID uint, loopID string) (*model.Session, *CompletionResult, error) {
	loop, err := s.LoopRepo.FindByID(loopID)
	if err != nil {
		return nil, nil, util.ErrLoopNotFound
	}

	workspace := model.WorkspaceProfessional
	if program, err := s.ProgramRepo.FindByID(loop.ProgramID); err == nil {
		workspace = program.Workspace
	}

	session := &model.Session{
		UserID:    userID,
		LoopID:    &loop.ID,
		ProgramID: &loop.ProgramID,
		Status:    model.SessionInProgress,
		Workspace: workspace,
		StartedAt: time.Now(),
	}
	session.Loop = loop

	d := phaseDurations{learn: loop.LearnMinutes, act: loop.ActMinutes, earn: loop.EarnMinutes}
	phase, seconds, ok := firstRunnablePhase(d)
	if !ok {
		session.Phase = model.PhaseEarn
		session.TimeRemaining = 0
		if err := s.SessionRepo.Create(session); err != nil {
			return nil, nil, err
		}
		result, err := s.completeSession(session)
		return session, result, err
	}

	session.Phase = phase
	session.TimeRemaining = seconds
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, nil, err
	}

	s.timers.start(session, d)
	return session, nil, nil
}

// Get returns a session owned by the user.
func (s *SessionService) Get(userID uint, id string) (*model.Session, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) List(userID uint, page, pageSize int) ([]model.Session, int64, error) {
	return s.SessionRepo.ListByUser(userID, page, pageSize)
}

// PatchRequest is a client-driven partial update; nil fields are untouched.
type PatchRequest struct {
	Phase         *model.Phase         `json:"phase,omitempty"`
	TimeRemaining *int                 `json:"timeRemaining,omitempty"`
	Status        *model.SessionStatus `json:"status,omitempty"`
}

// Patch applies a partial update. Completion cannot be patched in; it goes
// through Complete so side effects fire exactly once.
func (s *SessionService) Patch(userID uint, id string, req PatchRequest) (*model.Session, error) {
	session, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, util.ErrSessionCompleted
	}

	fields := map[string]interface{}{}
	if req.Phase != nil {
		switch *req.Phase {
		case model.PhaseLearn, model.PhaseAct, model.PhaseEarn:
			session.Phase = *req.Phase
			fields["phase"] = *req.Phase
		default:
			return nil, util.ErrInvalidPhase
		}
	}
	if req.TimeRemaining != nil {
		remaining := *req.TimeRemaining
		if remaining < 0 {
			remaining = 0
		}
		session.TimeRemaining = remaining
		fields["time_remaining"] = remaining
	}
	if req.Status != nil {
		switch *req.Status {
		case model.SessionInProgress, model.SessionPaused:
			session.Status = *req.Status
			fields["status"] = *req.Status
		case model.SessionCompleted:
			return nil, util.ErrSessionCompleted
		}
	}

	if len(fields) == 0 {
		return session, nil
	}
	if err := s.SessionRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.timers.sync(session)
	return session, nil
}

// Pause suspends the countdown and snapshots the runner's current position.
func (s *SessionService) Pause(userID uint, id string) (*model.Session, error) {
	session, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, util.ErrSessionCompleted
	}

	session.Status = model.SessionPaused
	// The runner is ahead of the last snapshot; freeze it first and persist
	// its live countdown, not the stale database value.
	if phase, remaining, ok := s.timers.pause(id); ok {
		session.Phase = phase
		session.TimeRemaining = remaining
	}
	if err := s.SessionRepo.UpdateFields(id, map[string]interface{}{
		"status":         model.SessionPaused,
		"phase":          session.Phase,
		"time_remaining": session.TimeRemaining,
	}); err != nil {
		return nil, err
	}
	return session, nil
}

// Resume restarts a paused countdown; if the server no longer has a runner
// for the session (restart, failover) a fresh one is started.
func (s *SessionService) Resume(userID uint, id string) (*model.Session, error) {
	session, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, util.ErrSessionCompleted
	}

	session.Status = model.SessionInProgress
	if err := s.SessionRepo.UpdateFields(id, map[string]interface{}{
		"status": model.SessionInProgress,
	}); err != nil {
		return nil, err
	}

	if !s.timers.resume(id) {
		d, err := s.durationsFor(session)
		if err != nil {
			return nil, err
		}
		s.timers.start(session, d)
	}
	return session, nil
}

// Skip forces the transition that would happen when the countdown reaches
// zero: on to the next runnable phase, or completion from the earn phase.
func (s *SessionService) Skip(userID uint, id string) (*model.Session, *CompletionResult, error) {
	session, err := s.Get(userID, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Completed() {
		return nil, nil, util.ErrSessionCompleted
	}

	d, err := s.durationsFor(session)
	if err != nil {
		return nil, nil, err
	}

	next, seconds, ok := nextRunnablePhase(d, session.Phase)
	if !ok {
		s.timers.stop(id, false)
		result, err := s.completeSession(session)
		return session, result, err
	}

	session.Phase = next
	session.TimeRemaining = seconds
	if err := s.SessionRepo.UpdateFields(id, map[string]interface{}{
		"phase":          next,
		"time_remaining": seconds,
	}); err != nil {
		return nil, nil, err
	}
	s.timers.sync(session)
	return session, nil, nil
}

// ReflectionInput is the optional reflection attached at completion time.
type ReflectionInput struct {
	Content   string `json:"content"`
	Sentiment string `json:"sentiment,omitempty"`
	Score     *int   `json:"score,omitempty"`
}

// CompletionResult reports the side effects of finalizing a session.
type CompletionResult struct {
	Session       *model.Session      `json:"session"`
	PointsAwarded int                 `json:"pointsAwarded"`
	Streak        int                 `json:"streak"`
	Points        int                 `json:"points"`
	Level         int                 `json:"level"`
	Unlocked      []model.Achievement `json:"unlockedAchievements,omitempty"`
}

// Complete explicitly finalizes a session, optionally attaching a
// reflection. Completing an already-completed session returns
// ErrSessionCompleted and awards nothing.
func (s *SessionService) Complete(userID uint, id string, reflection *ReflectionInput) (*CompletionResult, error) {
	session, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	s.timers.stop(id, false)

	result, err := s.completeSession(session)
	if err != nil {
		return nil, err
	}

	if reflection != nil && reflection.Content != "" {
		bonus, err := s.attachReflection(session, reflection)
		if err != nil {
			logger.Log.Error("failed to attach reflection", zap.String("session", id), zap.Error(err))
		} else {
			result.PointsAwarded += bonus.PointsAwarded
			result.Points = bonus.Points
			result.Level = bonus.Level
		}
	}

	return result, nil
}

// CompleteLegacy is the program-based completion path kept for clients that
// predate loops: it records an immediately-completed session and awards
// through the same rule as every other entry point.
func (s *SessionService) CompleteLegacy(userID uint, programID uint, workspace model.Workspace) (*CompletionResult, error) {
	program, err := s.ProgramRepo.FindByID(programID)
	if err != nil {
		return nil, util.ErrProgramNotFound
	}
	if !workspace.Valid() {
		workspace = program.Workspace
	}

	session := &model.Session{
		UserID:    userID,
		ProgramID: &program.ID,
		Status:    model.SessionInProgress,
		Phase:     model.PhaseEarn,
		Workspace: workspace,
		StartedAt: time.Now(),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	return s.completeSession(session)
}

// completeSession flips the session to completed exactly once and runs the
// side effects: streak-aware points award (CAS on the user row), point log,
// program progress marker, metrics, achievement evaluation.
func (s *SessionService) completeSession(session *model.Session) (*CompletionResult, error) {
	if session.Completed() {
		return nil, util.ErrSessionCompleted
	}

	now := time.Now()
	res := s.SessionRepo.DB.Model(&model.Session{}).
		Where("id = ? AND status <> ?", session.ID, model.SessionCompleted).
		Updates(map[string]interface{}{
			"status":         model.SessionCompleted,
			"time_remaining": 0,
			"completed_at":   now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race against another completion of the same session.
		return nil, util.ErrSessionCompleted
	}

	session.Status = model.SessionCompleted
	session.TimeRemaining = 0
	session.CompletedAt = &now

	times, err := s.SessionRepo.CompletedTimesByUser(session.UserID)
	if err != nil {
		return nil, err
	}
	streak := ComputeStreak(times, now)

	award := s.Rule.SessionCompletionAward(streak)
	user, err := s.UserRepo.AwardPoints(session.UserID, award, s.Rule.LevelFor)
	if err != nil {
		return nil, err
	}

	if err := s.PointLogRepo.Create(&model.PointLog{
		UserID:      session.UserID,
		Source:      model.PointSourceSession,
		Points:      award,
		ReferenceID: session.ID,
	}); err != nil {
		logger.Log.Error("failed to write point log", zap.Error(err))
	}

	if session.ProgramID != nil {
		if err := s.ProgressRepo.MarkCompleted(session.UserID, *session.ProgramID); err != nil {
			logger.Log.Error("failed to mark program progress", zap.Error(err))
		}
	}

	monitoring.SessionsCompleted.Inc()
	monitoring.PointsAwarded.WithLabelValues(string(model.PointSourceSession)).Add(float64(award))

	unlocked, err := s.Achievements.Evaluate(session.UserID, streak)
	if err != nil {
		logger.Log.Error("achievement evaluation failed", zap.Error(err))
	}

	logger.Log.Info("session completed",
		zap.String("session", session.ID),
		zap.Uint("user", session.UserID),
		zap.Int("points_awarded", award),
		zap.Int("streak", streak),
	)

	return &CompletionResult{
		Session:       session,
		PointsAwarded: award,
		Streak:        streak,
		Points:        user.Points,
		Level:         user.Level,
		Unlocked:      unlocked,
	}, nil
}

// attachReflection persists the reflection written at completion time and
// awards the reflection bonus through the same rule as POST /reflections.
func (s *SessionService) attachReflection(session *model.Session, input *ReflectionInput) (*CompletionResult, error) {
	reflection := &model.Reflection{
		SessionID: session.ID,
		UserID:    session.UserID,
		Content:   input.Content,
		Sentiment: input.Sentiment,
		Score:     clampScore(input.Score),
	}
	if err := s.ReflectionRepo.Create(reflection); err != nil {
		return nil, err
	}

	award := s.Rule.ReflectionAward(input.Score)
	user, err := s.UserRepo.AwardPoints(session.UserID, award, s.Rule.LevelFor)
	if err != nil {
		return nil, err
	}

	if err := s.PointLogRepo.Create(&model.PointLog{
		UserID:      session.UserID,
		Source:      model.PointSourceReflection,
		Points:      award,
		ReferenceID: reflection.ID,
	}); err != nil {
		logger.Log.Error("failed to write point log", zap.Error(err))
	}
	monitoring.PointsAwarded.WithLabelValues(string(model.PointSourceReflection)).Add(float64(award))

	return &CompletionResult{PointsAwarded: award, Points: user.Points, Level: user.Level}, nil
}

// RestoreTimers restarts countdowns for sessions that were live when the
// process last stopped. Paused sessions get a runner in the paused state so
// resume works without a fresh start.
func (s *SessionService) RestoreTimers() {
	sessions, err := s.SessionRepo.FindAllActive()
	if err != nil {
		logger.Log.Error("failed to load active sessions", zap.Error(err))
		return
	}
	for i := range sessions {
		session := &sessions[i]
		d, err := s.durationsFor(session)
		if err != nil {
			logger.Log.Error("cannot restore session timer", zap.String("session", session.ID), zap.Error(err))
			continue
		}
		s.timers.start(session, d)
		if session.Status == model.SessionPaused {
			s.timers.pause(session.ID)
		}
	}
	if len(sessions) > 0 {
		logger.Log.Info("restored session timers", zap.Int("count", len(sessions)))
	}
}

// Shutdown stops every live countdown, persisting remaining time.
func (s *SessionService) Shutdown() {
	s.timers.shutdown()
}

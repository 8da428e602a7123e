package service

import (
	"errors"
	"sync"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
)

// persistEvery is how many ticks pass between countdown snapshots written to
// the database. Transitions and pauses persist immediately regardless.
const persistEvery = 15

// timerRegistry guarantees at most one countdown runner per session. All
// runner creation and teardown goes through here under one lock.
type timerRegistry struct {
	mu      sync.Mutex
	svc     *SessionService
	runners map[string]*sessionTimer
}

func newTimerRegistry(svc *SessionService) *timerRegistry {
	return &timerRegistry{
		svc:     svc,
		runners: make(map[string]*sessionTimer),
	}
}

// start spawns a runner for the session, replacing any existing one.
func (r *timerRegistry) start(session *model.Session, d phaseDurations) {
	r.mu.Lock()
	if old, ok := r.runners[session.ID]; ok {
		old.halt()
	}
	t := &sessionTimer{
		registry:  r,
		sessionID: session.ID,
		userID:    session.UserID,
		phase:     session.Phase,
		remaining: session.TimeRemaining,
		durations: d,
		stop:      make(chan struct{}),
	}
	r.runners[session.ID] = t
	r.mu.Unlock()

	go t.run()
}

// sync pushes a client-driven phase/remaining update into the live runner,
// if one exists.
func (r *timerRegistry) sync(session *model.Session) {
	r.mu.Lock()
	t, ok := r.runners[session.ID]
	r.mu.Unlock()
	if !ok {
		return
	}
	t.mu.Lock()
	t.phase = session.Phase
	t.remaining = session.TimeRemaining
	t.paused = session.Status == model.SessionPaused
	t.mu.Unlock()
}

// pause suspends the runner and reports its live countdown position, which
// is fresher than the last database snapshot.
func (r *timerRegistry) pause(sessionID string) (model.Phase, int, bool) {
	r.mu.Lock()
	t, ok := r.runners[sessionID]
	r.mu.Unlock()
	if !ok {
		return "", 0, false
	}
	t.mu.Lock()
	t.paused = true
	phase, remaining := t.phase, t.remaining
	t.mu.Unlock()
	return phase, remaining, true
}

// resume reports whether a runner existed to resume.
func (r *timerRegistry) resume(sessionID string) bool {
	r.mu.Lock()
	t, ok := r.runners[sessionID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
	return true
}

// stop removes and halts the session's runner. When persist is true the
// current countdown position is written out first.
func (r *timerRegistry) stop(sessionID string, persist bool) {
	r.mu.Lock()
	t, ok := r.runners[sessionID]
	if ok {
		delete(r.runners, sessionID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	if persist {
		t.persist()
	}
	t.halt()
}

// remove drops a runner that finished on its own.
func (r *timerRegistry) remove(sessionID string, t *sessionTimer) {
	r.mu.Lock()
	if cur, ok := r.runners[sessionID]; ok && cur == t {
		delete(r.runners, sessionID)
	}
	r.mu.Unlock()
}

// shutdown halts every runner, persisting remaining time for each.
func (r *timerRegistry) shutdown() {
	r.mu.Lock()
	runners := make([]*sessionTimer, 0, len(r.runners))
	for id, t := range r.runners {
		runners = append(runners, t)
		delete(r.runners, id)
	}
	r.mu.Unlock()

	for _, t := range runners {
		t.persist()
		t.halt()
	}
}

// sessionTimer is the authoritative countdown for one session. It decrements
// once per second, snapshots to the database periodically, advances through
// runnable phases when a countdown expires, and finalizes the session when
// the last phase runs out.
type sessionTimer struct {
	registry  *timerRegistry
	sessionID string
	userID    uint
	durations phaseDurations
	stop      chan struct{}
	haltOnce  sync.Once

	mu           sync.Mutex
	phase        model.Phase
	remaining    int
	paused       bool
	sincePersist int
}

func (t *sessionTimer) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.tick() {
				t.registry.remove(t.sessionID, t)
				return
			}
		}
	}
}

// tick advances the countdown by one second and reports whether the session
// finished. Exposed separately from run so transitions are testable without
// waiting on wall-clock time.
func (t *sessionTimer) tick() bool {
	t.mu.Lock()
	if t.paused {
		t.mu.Unlock()
		return false
	}

	t.remaining--
	t.sincePersist++

	if t.remaining > 0 {
		shouldPersist := t.sincePersist >= persistEvery
		if shouldPersist {
			t.sincePersist = 0
		}
		t.mu.Unlock()
		if shouldPersist {
			t.persist()
		}
		return false
	}

	next, seconds, ok := nextRunnablePhase(t.durations, t.phase)
	if ok {
		t.phase = next
		t.remaining = seconds
		t.sincePersist = 0
		t.mu.Unlock()
		t.persistTransition(next, seconds)
		return false
	}
	t.mu.Unlock()

	t.finalize()
	return true
}

func (t *sessionTimer) persist() {
	t.mu.Lock()
	phase, remaining := t.phase, t.remaining
	t.mu.Unlock()

	if err := t.registry.svc.SessionRepo.UpdateFields(t.sessionID, map[string]interface{}{
		"phase":          phase,
		"time_remaining": remaining,
	}); err != nil {
		logger.Log.Error("failed to persist session countdown",
			zap.String("session", t.sessionID), zap.Error(err))
	}
}

func (t *sessionTimer) persistTransition(phase model.Phase, seconds int) {
	if err := t.registry.svc.SessionRepo.UpdateFields(t.sessionID, map[string]interface{}{
		"phase":          phase,
		"time_remaining": seconds,
	}); err != nil {
		logger.Log.Error("failed to persist phase transition",
			zap.String("session", t.sessionID), zap.Error(err))
	}
}

func (t *sessionTimer) finalize() {
	svc := t.registry.svc
	session, err := svc.SessionRepo.FindByID(t.sessionID)
	if err != nil {
		logger.Log.Error("timer could not load session to finalize",
			zap.String("session", t.sessionID), zap.Error(err))
		return
	}
	if _, err := svc.completeSession(session); err != nil {
		if errors.Is(err, util.ErrSessionCompleted) {
			return
		}
		logger.Log.Error("timer failed to finalize session",
			zap.String("session", t.sessionID), zap.Error(err))
	}
}

func (t *sessionTimer) halt() {
	t.haltOnce.Do(func() { close(t.stop) })
}

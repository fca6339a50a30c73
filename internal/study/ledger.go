// Package study owns the study timer: a running session, the daily
// goal and today's completed sessions, persisted between runs and
// reset at local midnight.
package study

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
)

var (
	// ErrAlreadyStudying is returned by Start while a session is in
	// progress. The in-progress start time is never overwritten.
	ErrAlreadyStudying = errors.New("a study session is already running")
	// ErrNotStudying is returned by Stop when nothing is running.
	ErrNotStudying = errors.New("no study session is running")
	// ErrInvalidGoal is returned by SetGoal for non-positive hours.
	ErrInvalidGoal = errors.New("goal hours must be positive")
)

const defaultTargetHours = 2

// State is the persisted portion of the ledger. The in-progress
// session is deliberately not part of it: a session interrupted by a
// restart is lost, not recovered.
type State struct {
	Goal          models.StudyGoal
	TodaySessions []models.StudySession
	LastResetDate string // local calendar day, YYYY-MM-DD
}

// Store persists ledger state between runs. Load reports ok=false
// when there is no usable prior state; the ledger then starts from
// defaults.
type Store interface {
	LoadLedger() (State, bool, error)
	SaveLedger(State) error
}

// Ledger tracks study time against a daily goal.
type Ledger struct {
	mu sync.Mutex

	goal      models.StudyGoal
	today     []models.StudySession
	current   *models.StudySession
	lastReset string

	store   Store
	archive func(day string, sessions []models.StudySession) error
	now     func() time.Time
	timer   *time.Timer
	closed  bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the ledger's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithArchiver registers a sink for completed sessions displaced by
// the daily rollover.
func WithArchiver(archive func(day string, sessions []models.StudySession) error) Option {
	return func(l *Ledger) {
		l.archive = archive
	}
}

// NewLedger loads persisted state from the store and applies any
// overdue rollover. Malformed or missing prior state falls back to
// defaults.
func NewLedger(store Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	state, ok, err := store.LoadLedger()
	if err != nil || !ok {
		state = State{
			Goal:          models.StudyGoal{TargetHours: defaultTargetHours},
			LastResetDate: localDay(l.now()),
		}
	}
	l.goal = state.Goal
	l.today = state.TodaySessions
	l.lastReset = state.LastResetDate

	l.mu.Lock()
	defer l.mu.Unlock()
	if rolled := l.rolloverLocked(); rolled {
		if err := l.saveLocked(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Start begins a study session. The in-progress session lives only in
// memory until Stop.
func (l *Ledger) Start() (models.StudySession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		return *l.current, ErrAlreadyStudying
	}
	l.current = &models.StudySession{StartTime: l.now()}
	return *l.current, nil
}

// Stop finishes the running session, appends it to today's completed
// sessions and credits its minutes toward the goal.
func (l *Ledger) Stop() (models.StudySession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return models.StudySession{}, ErrNotStudying
	}

	end := l.now()
	session := *l.current
	session.EndTime = &end
	minutes := int(math.Round(end.Sub(session.StartTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	session.DurationMinutes = minutes

	l.today = append(l.today, session)
	l.goal.CompletedMinutes += minutes
	l.current = nil

	if err := l.saveLocked(); err != nil {
		return session, err
	}
	return session, nil
}

// SetGoal updates the daily target. Completed minutes are untouched.
func (l *Ledger) SetGoal(hours float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return ErrInvalidGoal
	}
	l.goal.TargetHours = hours
	return l.saveLocked()
}

// Goal returns the current daily goal.
func (l *Ledger) Goal() models.StudyGoal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.goal
}

// TodaySessions returns a copy of today's completed sessions.
func (l *Ledger) TodaySessions() []models.StudySession {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.StudySession, len(l.today))
	copy(out, l.today)
	return out
}

// Current returns the in-progress session, if any.
func (l *Ledger) Current() (models.StudySession, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return models.StudySession{}, false
	}
	return *l.current, true
}

// Studying reports whether a session is running.
func (l *Ledger) Studying() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// ProgressPercent returns goal completion as a whole percentage,
// clamped to 100. A zero target never divides by zero.
func (l *Ledger) ProgressPercent() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	targetMinutes := l.goal.TargetHours * 60
	if targetMinutes <= 0 {
		return 0
	}
	percent := int(math.Round(float64(l.goal.CompletedMinutes) / targetMinutes * 100))
	if percent > 100 {
		return 100
	}
	return percent
}

// FormatDuration renders minutes as "H時間 M分", dropping the minute
// part when it is zero.
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if mins > 0 {
		return fmt.Sprintf("%d時間 %d分", hours, mins)
	}
	return fmt.Sprintf("%d時間", hours)
}

// Rollover clears today's sessions and progress if the calendar day
// has changed since the last reset. The target hours survive; the
// cleared sessions go to the archiver when one is registered. Returns
// true when a reset happened.
func (l *Ledger) Rollover() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.rolloverLocked() {
		return false, nil
	}
	return true, l.saveLocked()
}

func (l *Ledger) rolloverLocked() bool {
	today := localDay(l.now())
	if l.lastReset == today {
		return false
	}

	if l.archive != nil && len(l.today) > 0 {
		// Archive failures don't block the reset: the rollover must
		// happen either way, and the snapshot is the source of truth.
		_ = l.archive(l.lastReset, l.today)
	}

	l.today = nil
	l.goal.CompletedMinutes = 0
	l.lastReset = today
	return true
}

func (l *Ledger) saveLocked() error {
	return l.store.SaveLedger(State{
		Goal:          l.goal,
		TodaySessions: l.today,
		LastResetDate: l.lastReset,
	})
}

func localDay(t time.Time) string {
	return t.Format("2006-01-02")
}

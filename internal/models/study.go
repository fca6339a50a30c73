package models

import (
	"time"

	"gorm.io/gorm"
)

// StudySession represents one start/stop study interval
type StudySession struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// DurationMinutes is computed on stop and only meaningful
	// when EndTime is set.
	DurationMinutes int `json:"duration_minutes"`
}

// StudyGoal tracks the daily study target and progress toward it
type StudyGoal struct {
	TargetHours      float64 `json:"target_hours"`
	CompletedMinutes int     `json:"completed_minutes"`
}

// ArchivedSession is a completed study session moved into the
// archive database when the day rolls over
type ArchivedSession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Day             string    `gorm:"index;not null" json:"day"` // local calendar day, YYYY-MM-DD
	StartedAt       time.Time `gorm:"not null" json:"started_at"`
	FinishedAt      time.Time `gorm:"not null" json:"finished_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

package db

import (
	"fmt"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
)

// DaySummary aggregates one archived day.
type DaySummary struct {
	Day          string `json:"day"`
	TotalMinutes int    `json:"total_minutes"`
	Sessions     int    `json:"sessions"`
}

// ArchiveSessions stores a day's completed sessions. Called by the
// ledger's rollover when the calendar day changes; sessions without
// an end time are skipped.
func ArchiveSessions(day string, sessions []models.StudySession) error {
	rows := make([]models.ArchivedSession, 0, len(sessions))
	for _, s := range sessions {
		if s.EndTime == nil {
			continue
		}
		rows = append(rows, models.ArchivedSession{
			Day:             day,
			StartedAt:       s.StartTime,
			FinishedAt:      *s.EndTime,
			DurationMinutes: s.DurationMinutes,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := DB.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to archive sessions for %s: %w", day, err)
	}
	return nil
}

// GetDaySummaries returns per-day study totals, most recent first.
func GetDaySummaries(limit int) ([]DaySummary, error) {
	var summaries []DaySummary

	err := DB.Model(&models.ArchivedSession{}).
		Select("day, SUM(duration_minutes) AS total_minutes, COUNT(*) AS sessions").
		Group("day").
		Order("day DESC").
		Limit(limit).
		Scan(&summaries).Error

	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// GetSessionsForDay returns the archived sessions of one day in
// start order.
func GetSessionsForDay(day string) ([]models.ArchivedSession, error) {
	var sessions []models.ArchivedSession

	err := DB.Where("day = ?", day).
		Order("started_at ASC").
		Find(&sessions).Error

	if err != nil {
		return nil, err
	}

	return sessions, nil
}

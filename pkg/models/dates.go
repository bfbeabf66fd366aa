package model

import (
	"time"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/constants"
)

const DateLayout = "2006-01-02"

// DateOf returns the UTC calendar day containing t, at midnight.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b, ignoring the time of day.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func lifecycleOf(deletedAt gorm.DeletedAt) constants.Lifecycle {
	if deletedAt.Valid {
		return constants.LifecycleDeleted
	}
	return constants.LifecycleActive
}

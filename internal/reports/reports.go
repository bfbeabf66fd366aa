// Package reports computes dashboard statistics from a snapshot of tasks,
// projects and users. Every function is a pure aggregation pass: callers
// load the rows (already excluding soft-deleted ones) and supply the
// reference time used for overdue checks.
package reports

import (
	"math"
	"time"

	model "taskboard.com/taskboard/pkg/models"
)

// Snapshot is a consistent read of the rows a report needs.
type Snapshot struct {
	Projects []model.Project
	Tasks    []model.Task
	Users    []model.User
	TakenAt  time.Time
}

type UserRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns num/den*100 rounded to two decimals, or 0 when den is 0.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round2(num / den * 100)
}

func userNames(users []model.User) map[uint]string {
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

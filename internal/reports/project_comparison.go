package reports

import (
	"math"
	"sort"
	"time"

	"taskboard.com/taskboard/internal/constants"
	model "taskboard.com/taskboard/pkg/models"
)

type ComparisonRow struct {
	ID                   uint                    `json:"id"`
	Name                 string                  `json:"name"`
	Status               constants.ProjectStatus `json:"status"`
	TotalTasks           int                     `json:"total_tasks"`
	CompletedTasks       int                     `json:"completed_tasks"`
	OverdueTasks         int                     `json:"overdue_tasks"`
	TotalEstimated       float64                 `json:"total_estimated"`
	TotalActual          float64                 `json:"total_actual"`
	TeamSize             int                     `json:"team_size"`
	CriticalTasksPending int                     `json:"critical_tasks_pending"`
	HealthScore          int                     `json:"health_score"`
}

// BuildProjectComparison produces one row per project ordered by health
// score, highest first. Tasks of projects outside the slice are ignored.
func BuildProjectComparison(projects []model.Project, tasks []model.Task, now time.Time) []ComparisonRow {
	rows := make([]ComparisonRow, len(projects))
	index := make(map[uint]int, len(projects))
	team := make([]map[uint]struct{}, len(projects))
	for i, p := range projects {
		rows[i] = ComparisonRow{ID: p.ID, Name: p.Name, Status: p.Status}
		index[p.ID] = i
		team[i] = make(map[uint]struct{})
	}

	for i := range tasks {
		t := &tasks[i]
		pos, ok := index[t.ProjectID]
		if !ok {
			continue
		}
		row := &rows[pos]
		row.TotalTasks++
		row.TotalEstimated += t.EstimatedHours
		row.TotalActual += t.ActualHours
		if t.Status == constants.StatusCompleted {
			row.CompletedTasks++
		} else if t.Priority.Critical() {
			row.CriticalTasksPending++
		}
		if t.IsOverdue(now) {
			row.OverdueTasks++
		}
		if t.AssignedTo != nil {
			team[pos][*t.AssignedTo] = struct{}{}
		}
	}

	for i := range rows {
		rows[i].TeamSize = len(team[i])
		rows[i].TotalEstimated = round2(rows[i].TotalEstimated)
		rows[i].TotalActual = round2(rows[i].TotalActual)
		rows[i].HealthScore = HealthScore(rows[i].TotalTasks, rows[i].CompletedTasks, rows[i].OverdueTasks)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].HealthScore != rows[j].HealthScore {
			return rows[i].HealthScore > rows[j].HealthScore
		}
		return rows[i].ID < rows[j].ID
	})

	return rows
}

// HealthScore blends completion (40 points) with an overdue penalty against
// 60 points. A project without tasks scores 0; the result never drops below 0.
func HealthScore(total, completed, overdue int) int {
	if total == 0 {
		return 0
	}
	denominator := math.Max(float64(total), 1)
	score := math.Round(float64(completed)*40/denominator + float64(60-overdue*10))
	if score < 0 {
		return 0
	}
	return int(score)
}

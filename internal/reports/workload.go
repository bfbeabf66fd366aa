package reports

import (
	"sort"
	"time"

	"taskboard.com/taskboard/internal/constants"
	model "taskboard.com/taskboard/pkg/models"
)

type WorkloadRow struct {
	UserID               uint    `json:"user_id"`
	UserName             string  `json:"user_name"`
	Email                string  `json:"email"`
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	ActiveTasks          int     `json:"active_tasks"`
	TotalHours           float64 `json:"total_hours"`
	OverdueTasks         int     `json:"overdue_tasks"`
	WorkloadRank         int     `json:"workload_rank"`
	ProductivityRank     int     `json:"productivity_rank"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// BuildUserWorkload produces one row per user, including users with no
// tasks. Tasks assigned to users outside the slice are ignored.
//
// WorkloadRank is a row number over total hours (ties by user id).
// ProductivityRank is a dense rank over completed tasks.
func BuildUserWorkload(users []model.User, tasks []model.Task, now time.Time) []WorkloadRow {
	rows := make([]WorkloadRow, len(users))
	index := make(map[uint]int, len(users))
	for i, u := range users {
		rows[i] = WorkloadRow{UserID: u.ID, UserName: u.Name, Email: u.Email}
		index[u.ID] = i
	}

	for i := range tasks {
		t := &tasks[i]
		if t.AssignedTo == nil {
			continue
		}
		pos, ok := index[*t.AssignedTo]
		if !ok {
			continue
		}
		row := &rows[pos]
		row.TotalTasks++
		row.TotalHours += t.ActualHours
		switch t.Status {
		case constants.StatusCompleted:
			row.CompletedTasks++
		case constants.StatusInProgress:
			row.ActiveTasks++
		}
		if t.IsOverdue(now) {
			row.OverdueTasks++
		}
	}

	for i := range rows {
		rows[i].TotalHours = round2(rows[i].TotalHours)
		rows[i].CompletionPercentage = percent(float64(rows[i].CompletedTasks), float64(rows[i].TotalTasks))
	}

	assignProductivityRanks(rows)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalHours != rows[j].TotalHours {
			return rows[i].TotalHours > rows[j].TotalHours
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		rows[i].WorkloadRank = i + 1
	}

	return rows
}

func assignProductivityRanks(rows []WorkloadRow) {
	counts := make([]int, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for _, r := range rows {
		if !seen[r.CompletedTasks] {
			seen[r.CompletedTasks] = true
			counts = append(counts, r.CompletedTasks)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	rank := make(map[int]int, len(counts))
	for i, c := range counts {
		rank[c] = i + 1
	}
	for i := range rows {
		rows[i].ProductivityRank = rank[rows[i].CompletedTasks]
	}
}

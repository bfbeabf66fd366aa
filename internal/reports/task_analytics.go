package reports

import (
	"time"

	"taskboard.com/taskboard/internal/constants"
	model "taskboard.com/taskboard/pkg/models"
)

type TaskAnalytics struct {
	ProjectID            uint     `json:"project_id"`
	ProjectName          string   `json:"project_name"`
	TotalTasks           int      `json:"total_tasks"`
	UniqueAssignees      int      `json:"unique_assignees"`
	TodoCount            int      `json:"todo_count"`
	InProgressCount      int      `json:"in_progress_count"`
	ReviewCount          int      `json:"review_count"`
	CompletedCount       int      `json:"completed_count"`
	UrgentCount          int      `json:"urgent_count"`
	HighCount            int      `json:"high_count"`
	TotalEstimatedHours  float64  `json:"total_estimated_hours"`
	TotalActualHours     float64  `json:"total_actual_hours"`
	AvgTaskHours         float64  `json:"avg_task_hours"`
	EfficiencyPercentage float64  `json:"efficiency_percentage"`
	CompletionRate       float64  `json:"completion_rate"`
	OverdueCount         int      `json:"overdue_count"`
	TopAssignee          *UserRef `json:"top_assignee"`
	AvgDaysToComplete    *float64 `json:"avg_days_to_complete"`
}

// BuildTaskAnalytics aggregates the tasks of a single project. tasks must
// belong to project; users resolves assignee names.
func BuildTaskAnalytics(project *model.Project, tasks []model.Task, users []model.User, now time.Time) TaskAnalytics {
	out := TaskAnalytics{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		TotalTasks:  len(tasks),
	}

	perAssignee := make(map[uint]int)
	var completedDays, completedWithTime int

	for i := range tasks {
		t := &tasks[i]

		switch t.Status {
		case constants.StatusTodo:
			out.TodoCount++
		case constants.StatusInProgress:
			out.InProgressCount++
		case constants.StatusReview:
			out.ReviewCount++
		case constants.StatusCompleted:
			out.CompletedCount++
		}

		switch t.Priority {
		case constants.PriorityUrgent:
			out.UrgentCount++
		case constants.PriorityHigh:
			out.HighCount++
		}

		out.TotalEstimatedHours += t.EstimatedHours
		out.TotalActualHours += t.ActualHours

		if t.IsOverdue(now) {
			out.OverdueCount++
		}

		if t.AssignedTo != nil {
			perAssignee[*t.AssignedTo]++
		}

		if done, ok := t.CompletionTime(); ok {
			completedDays += model.DaysBetween(t.CreatedAt, done)
			completedWithTime++
		}
	}

	out.UniqueAssignees = len(perAssignee)
	if out.TotalTasks > 0 {
		out.AvgTaskHours = round2(out.TotalActualHours / float64(out.TotalTasks))
	}
	out.EfficiencyPercentage = percent(out.TotalActualHours, out.TotalEstimatedHours)
	out.CompletionRate = percent(float64(out.CompletedCount), float64(out.TotalTasks))
	out.TotalEstimatedHours = round2(out.TotalEstimatedHours)
	out.TotalActualHours = round2(out.TotalActualHours)

	if id, ok := topAssignee(perAssignee); ok {
		out.TopAssignee = &UserRef{ID: id, Name: userNames(users)[id]}
	}

	if completedWithTime > 0 {
		avg := round2(float64(completedDays) / float64(completedWithTime))
		out.AvgDaysToComplete = &avg
	}

	return out
}

// topAssignee picks the assignee with the most tasks. Ties go to the
// lowest user id so repeated runs agree.
func topAssignee(counts map[uint]int) (uint, bool) {
	var (
		best      uint
		bestCount int
		found     bool
	)
	for id, n := range counts {
		if !found || n > bestCount || (n == bestCount && id < best) {
			best, bestCount, found = id, n, true
		}
	}
	return best, found
}

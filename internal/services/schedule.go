package services

import (
	"math"
	"time"

	"github.com/doviland/gestionale/internal/models"
)

const defaultTimelineDays = 90

// workdayHours converts estimated effort into bar width on the timeline.
const workdayHours = 8.0

// TimelineRange computes the date window of a project's gantt view. It
// starts from the project's own dates, defaulting to [today, today+90d],
// then stretches to cover every task due date falling outside it.
func TimelineRange(project models.Project, tasks []models.Task, today time.Time) (time.Time, time.Time) {
	minDate := today
	if project.StartDate != nil {
		minDate = *project.StartDate
	}
	maxDate := today.AddDate(0, 0, defaultTimelineDays)
	if project.EndDate != nil {
		maxDate = *project.EndDate
	}

	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(minDate) {
			minDate = *task.DueDate
		}
		if task.DueDate.After(maxDate) {
			maxDate = *task.DueDate
		}
	}
	return minDate, maxDate
}

// GanttBar positions a task on a timeline starting at rangeStart. Offset
// is whole days from the range start to the due date, never negative.
// Width is the estimated effort in workdays, at least one. A task without
// a due date sits collapsed at the origin.
func GanttBar(task models.Task, rangeStart time.Time) (offset int, width int) {
	if task.DueDate == nil {
		return 0, 1
	}
	offset = DaysBetween(rangeStart, *task.DueDate)
	if offset < 0 {
		offset = 0
	}
	width = 1
	if task.EstimatedHours != nil && *task.EstimatedHours > 0 {
		width = int(math.Ceil(*task.EstimatedHours / workdayHours))
		if width < 1 {
			width = 1
		}
	}
	return offset, width
}

// TaskStats is the status breakdown of a task collection.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Overdue    int `json:"overdue"`
}

// CountTaskStats tallies a task list. Overdue means not completed with a
// due date before today.
func CountTaskStats(tasks []models.Task, today time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for index := range tasks {
		task := &tasks[index]
		switch task.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusInProgress:
			stats.InProgress++
		}
		if task.IsOverdue(today) {
			stats.Overdue++
		}
	}
	return stats
}

// CompletionRate is the completed share as a rounded percentage, zero
// when there is nothing to complete.
func CompletionRate(completed int, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type TaskStore interface {
	List(filter db.TaskFilter) ([]models.Task, error)
	ListByAssignee(userID uint, status string) ([]models.Task, error)
	FindByID(taskID uint) (models.Task, error)
	Create(task *models.Task) error
	UpdateByID(taskID uint, updates map[string]any) error
	Delete(taskID uint) error
}

type ProjectFinder interface {
	FindByID(projectID uint) (models.Project, error)
}

type ActivityRecorder interface {
	Record(actorID uint, entityType string, entityID uint, action string, details string)
}

// TaskService validates and applies task lifecycle transitions.
type TaskService struct {
	tasks    TaskStore
	projects ProjectFinder
	activity ActivityRecorder
}

func NewTaskService(tasks TaskStore, projects ProjectFinder, activity ActivityRecorder) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, activity: activity}
}

// TaskInput carries the writable fields for task creation.
type TaskInput struct {
	ProjectID      uint     `json:"project_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Area           string   `json:"area"`
	AssignedTo     *uint    `json:"assigned_to"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Notes          string   `json:"notes"`
}

// TaskListFilter narrows List to what the caller asked for; area scoping
// is applied on top of it.
type TaskListFilter struct {
	ProjectID  *uint
	AssignedTo *uint
	Status     string
	Area       string
	Month      string
}

func (service *TaskService) List(actor *models.User, filter TaskListFilter) ([]models.Task, error) {
	allowed := AllowedAreas(actor)
	if allowed != nil && len(allowed) == 0 {
		return []models.Task{}, nil
	}
	if filter.Area != "" && !CanAccess(actor, filter.Area) {
		return []models.Task{}, nil
	}
	return service.tasks.List(db.TaskFilter{
		Areas:      allowed,
		ProjectID:  filter.ProjectID,
		AssignedTo: filter.AssignedTo,
		Status:     filter.Status,
		Area:       filter.Area,
		Month:      filter.Month,
	})
}

// ListMine returns the caller's own assignments regardless of area flags.
func (service *TaskService) ListMine(actor *models.User, status string) ([]models.Task, error) {
	return service.tasks.ListByAssignee(actor.ID, status)
}

func (service *TaskService) Get(actor *models.User, taskID uint) (models.Task, error) {
	task, err := service.tasks.FindByID(taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if err != nil {
		return models.Task{}, err
	}
	if !CanAccess(actor, task.Area) {
		return models.Task{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, task.Area)
	}
	return task, nil
}

// Create adds a task to a project. The area defaults to the project's;
// creating with an assignee logs an assigned entry on top of created.
func (service *TaskService) Create(actor *models.User, input TaskInput, now time.Time) (models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	project, err := service.projects.FindByID(input.ProjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
	}
	if err != nil {
		return models.Task{}, err
	}

	if input.Area == "" {
		input.Area = project.Area
	}
	if !models.IsValidArea(input.Area) {
		return models.Task{}, fmt.Errorf("%w: invalid area", ErrInvalidInput)
	}
	if !CanAccess(actor, input.Area) {
		return models.Task{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, input.Area)
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !models.IsValidTaskStatus(input.Status) {
		return models.Task{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(input.Priority) {
		return models.Task{}, fmt.Errorf("%w: invalid priority", ErrInvalidInput)
	}

	task := models.Task{
		ProjectID:      project.ID,
		Title:          input.Title,
		Description:    input.Description,
		Area:           input.Area,
		AssignedTo:     input.AssignedTo,
		Status:         input.Status,
		Priority:       input.Priority,
		EstimatedHours: input.EstimatedHours,
		Notes:          input.Notes,
		CreatedBy:      actor.ID,
	}
	if input.DueDate != "" {
		dueDate, err := ParseDate(input.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		task.DueDate = &dueDate
	}
	if task.Status == models.TaskStatusCompleted {
		task.CompletedAt = &now
	}

	if err := service.tasks.Create(&task); err != nil {
		return models.Task{}, err
	}

	service.activity.Record(actor.ID, models.EntityTask, task.ID, models.ActionCreated,
		fmt.Sprintf("Created task %q", task.Title))
	if task.AssignedTo != nil {
		service.activity.Record(actor.ID, models.EntityTask, task.ID, models.ActionAssigned,
			fmt.Sprintf("Assigned task to user %d", *task.AssignedTo))
	}
	return task, nil
}

func (service *TaskService) Delete(actor *models.User, taskID uint) error {
	task, err := service.tasks.FindByID(taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if err != nil {
		return err
	}
	if !CanAccess(actor, task.Area) {
		return fmt.Errorf("%w: no permission for area %s", ErrForbidden, task.Area)
	}
	if err := service.tasks.Delete(taskID); err != nil {
		return err
	}
	service.activity.Record(actor.ID, models.EntityTask, taskID, models.ActionDeleted,
		fmt.Sprintf("Deleted task %q", task.Title))
	return nil
}

// Apply performs a partial update on a task. Only provided fields change;
// a null value clears an optional field. Completing a task without an
// explicit completed_at stamps now. On top of the generic updated entry,
// completing logs a completed entry and reassigning logs an assigned one.
func (service *TaskService) Apply(actor *models.User, taskID uint, patch TaskPatch, now time.Time) (models.Task, error) {
	task, err := service.tasks.FindByID(taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if err != nil {
		return models.Task{}, err
	}

	if !CanAccess(actor, task.Area) {
		return models.Task{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, task.Area)
	}
	if patch.Empty() {
		return models.Task{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	updates := make(map[string]any)
	statusChanged := false
	completing := false
	assignmentChanged := false
	var newAssignee *uint

	if patch.Title.Set {
		if !patch.Title.Valid || patch.Title.Value == "" {
			return models.Task{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		updates["title"] = patch.Title.Value
	}
	if patch.Description.Set {
		updates["description"] = nullableString(patch.Description)
	}
	if patch.Area.Set {
		if !patch.Area.Valid || !models.IsValidArea(patch.Area.Value) {
			return models.Task{}, fmt.Errorf("%w: invalid area", ErrInvalidInput)
		}
		// Moving a task to a new area needs permission on the destination,
		// independent of the permission already checked on the current one.
		if !CanAccess(actor, patch.Area.Value) {
			return models.Task{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, patch.Area.Value)
		}
		updates["area"] = patch.Area.Value
	}
	if patch.AssignedTo.Set {
		if patch.AssignedTo.Valid {
			value := patch.AssignedTo.Value
			newAssignee = &value
			updates["assigned_to"] = value
		} else {
			updates["assigned_to"] = nil
		}
		assignmentChanged = !equalUintPtr(newAssignee, task.AssignedTo)
	}
	if patch.Status.Set {
		if !patch.Status.Valid || !models.IsValidTaskStatus(patch.Status.Value) {
			return models.Task{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		updates["status"] = patch.Status.Value
		statusChanged = patch.Status.Value != task.Status
		completing = statusChanged && patch.Status.Value == models.TaskStatusCompleted
		if patch.Status.Value == models.TaskStatusCompleted && !patch.CompletedAt.Set {
			updates["completed_at"] = now
		}
	}
	if patch.Priority.Set {
		if !patch.Priority.Valid || !models.IsValidPriority(patch.Priority.Value) {
			return models.Task{}, fmt.Errorf("%w: invalid priority", ErrInvalidInput)
		}
		updates["priority"] = patch.Priority.Value
	}
	if patch.DueDate.Set {
		if patch.DueDate.Valid {
			dueDate, err := ParseDate(patch.DueDate.Value)
			if err != nil {
				return models.Task{}, err
			}
			updates["due_date"] = dueDate
		} else {
			updates["due_date"] = nil
		}
	}
	if patch.CompletedAt.Set {
		if patch.CompletedAt.Valid {
			completedAt, err := parseTimestamp(patch.CompletedAt.Value)
			if err != nil {
				return models.Task{}, err
			}
			updates["completed_at"] = completedAt
		} else {
			updates["completed_at"] = nil
		}
	}
	if patch.EstimatedHours.Set {
		if patch.EstimatedHours.Valid {
			updates["estimated_hours"] = patch.EstimatedHours.Value
		} else {
			updates["estimated_hours"] = nil
		}
	}
	if patch.Notes.Set {
		updates["notes"] = nullableString(patch.Notes)
	}

	if err := service.tasks.UpdateByID(taskID, updates); err != nil {
		return models.Task{}, err
	}

	service.activity.Record(actor.ID, models.EntityTask, taskID, models.ActionUpdated, "Updated task")
	if completing {
		service.activity.Record(actor.ID, models.EntityTask, taskID, models.ActionCompleted, "Task completed")
	}
	if assignmentChanged && newAssignee != nil {
		service.activity.Record(actor.ID, models.EntityTask, taskID, models.ActionAssigned,
			fmt.Sprintf("Assigned task to user %d", *newAssignee))
	}

	return service.tasks.FindByID(taskID)
}

// Toggle flips a task between completed and pending. Completing stamps
// completed_at; reopening clears it. No other status is ever produced.
func (service *TaskService) Toggle(actor *models.User, taskID uint, now time.Time) (string, error) {
	task, err := service.tasks.FindByID(taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if err != nil {
		return "", err
	}

	if !CanAccess(actor, task.Area) {
		return "", fmt.Errorf("%w: no permission for area %s", ErrForbidden, task.Area)
	}

	updates := map[string]any{}
	newStatus := models.TaskStatusCompleted
	if task.Status == models.TaskStatusCompleted {
		newStatus = models.TaskStatusPending
		updates["completed_at"] = nil
	} else {
		updates["completed_at"] = now
	}
	updates["status"] = newStatus

	if err := service.tasks.UpdateByID(taskID, updates); err != nil {
		return "", err
	}

	if newStatus == models.TaskStatusCompleted {
		service.activity.Record(actor.ID, models.EntityTask, taskID, models.ActionCompleted, "Task marked as completed")
	}
	return newStatus, nil
}

func nullableString(field PatchField[string]) any {
	if !field.Valid || field.Value == "" {
		return nil
	}
	return field.Value
}

func equalUintPtr(a *uint, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func parseTimestamp(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidInput, raw)
	}
	return parsed, nil
}

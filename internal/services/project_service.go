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

// ProjectService coordinates project lifecycle across clients, templates,
// tasks and recurrence configuration.
type ProjectService struct {
	repos    *db.Repositories
	activity ActivityRecorder
}

func NewProjectService(repos *db.Repositories, activity ActivityRecorder) *ProjectService {
	return &ProjectService{repos: repos, activity: activity}
}

// TaskView is a task enriched with its assignee's display name.
type TaskView struct {
	models.Task
	AssigneeName string `json:"assignee_name,omitempty"`
}

// ProjectDetail is the full read model of one project.
type ProjectDetail struct {
	Project    models.Project         `json:"project"`
	Tasks      []TaskView             `json:"tasks"`
	Recurrence *models.TaskRecurrence `json:"recurrence,omitempty"`
}

// ProjectInput carries the writable fields for project creation.
type ProjectInput struct {
	ClientID    uint   `json:"client_id"`
	TemplateID  *uint  `json:"template_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Area        string `json:"area"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ProjectPatch is the sparse field set accepted by project updates.
type ProjectPatch struct {
	ClientID    PatchField[uint]   `json:"client_id"`
	Name        PatchField[string] `json:"name"`
	Description PatchField[string] `json:"description"`
	Area        PatchField[string] `json:"area"`
	Status      PatchField[string] `json:"status"`
	StartDate   PatchField[string] `json:"start_date"`
	EndDate     PatchField[string] `json:"end_date"`
}

func (patch ProjectPatch) empty() bool {
	return !patch.ClientID.Set &&
		!patch.Name.Set &&
		!patch.Description.Set &&
		!patch.Area.Set &&
		!patch.Status.Set &&
		!patch.StartDate.Set &&
		!patch.EndDate.Set
}

func (service *ProjectService) List(actor *models.User, clientID *uint, area string, status string) ([]models.Project, error) {
	allowed := AllowedAreas(actor)
	if allowed != nil && len(allowed) == 0 {
		return []models.Project{}, nil
	}
	if area != "" && !CanAccess(actor, area) {
		return []models.Project{}, nil
	}
	return service.repos.Projects.List(db.ProjectFilter{
		Areas:    allowed,
		ClientID: clientID,
		Area:     area,
		Status:   status,
	})
}

func (service *ProjectService) Get(actor *models.User, projectID uint) (ProjectDetail, error) {
	project, err := service.repos.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProjectDetail{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return ProjectDetail{}, err
	}
	if !CanAccess(actor, project.Area) {
		return ProjectDetail{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, project.Area)
	}

	tasks, err := service.repos.Tasks.ListByProject(projectID)
	if err != nil {
		return ProjectDetail{}, err
	}
	views, err := service.enrichTasks(tasks)
	if err != nil {
		return ProjectDetail{}, err
	}

	detail := ProjectDetail{Project: project, Tasks: views}
	recurrence, err := service.repos.Recurrences.FindActiveByProject(projectID)
	if err == nil {
		detail.Recurrence = &recurrence
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ProjectDetail{}, err
	}
	return detail, nil
}

// Create builds the project and, when a template is given, its initial
// tasks in one transaction.
func (service *ProjectService) Create(actor *models.User, input ProjectInput) (models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return models.Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !models.IsValidArea(input.Area) {
		return models.Project{}, fmt.Errorf("%w: invalid area", ErrInvalidInput)
	}
	if !CanAccess(actor, input.Area) {
		return models.Project{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, input.Area)
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusActive
	}
	if !models.IsValidProjectStatus(input.Status) {
		return models.Project{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if _, err := service.repos.Clients.FindByID(input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, fmt.Errorf("%w: client %d", ErrNotFound, input.ClientID)
		}
		return models.Project{}, err
	}

	project := models.Project{
		ClientID:    input.ClientID,
		TemplateID:  input.TemplateID,
		Name:        input.Name,
		Description: input.Description,
		Area:        input.Area,
		Status:      input.Status,
		CreatedBy:   actor.ID,
	}
	if input.StartDate != "" {
		startDate, err := ParseDate(input.StartDate)
		if err != nil {
			return models.Project{}, err
		}
		project.StartDate = &startDate
	}
	if input.EndDate != "" {
		endDate, err := ParseDate(input.EndDate)
		if err != nil {
			return models.Project{}, err
		}
		project.EndDate = &endDate
	}

	var tasks []models.Task
	if input.TemplateID != nil {
		template, err := service.repos.Templates.FindActiveByID(*input.TemplateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, fmt.Errorf("%w: template %d", ErrNotFound, *input.TemplateID)
		}
		if err != nil {
			return models.Project{}, err
		}
		tasks = BuildTemplateTasks(template, &project, actor.ID)
	}

	if err := service.repos.Projects.CreateWithTasks(&project, tasks); err != nil {
		return models.Project{}, err
	}

	service.activity.Record(actor.ID, models.EntityProject, project.ID, models.ActionCreated,
		fmt.Sprintf("Created project %q", project.Name))
	return project, nil
}

func (service *ProjectService) Update(actor *models.User, projectID uint, patch ProjectPatch) (models.Project, error) {
	project, err := service.repos.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Project{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return models.Project{}, err
	}
	if !CanAccess(actor, project.Area) {
		return models.Project{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, project.Area)
	}
	if patch.empty() {
		return models.Project{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	updates := make(map[string]any)
	if patch.Name.Set {
		if !patch.Name.Valid || strings.TrimSpace(patch.Name.Value) == "" {
			return models.Project{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = strings.TrimSpace(patch.Name.Value)
	}
	if patch.Description.Set {
		updates["description"] = nullableString(patch.Description)
	}
	if patch.ClientID.Set {
		if !patch.ClientID.Valid {
			return models.Project{}, fmt.Errorf("%w: client_id cannot be null", ErrInvalidInput)
		}
		if _, err := service.repos.Clients.FindByID(patch.ClientID.Value); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Project{}, fmt.Errorf("%w: client %d", ErrNotFound, patch.ClientID.Value)
			}
			return models.Project{}, err
		}
		updates["client_id"] = patch.ClientID.Value
	}
	if patch.Area.Set {
		if !patch.Area.Valid || !models.IsValidArea(patch.Area.Value) {
			return models.Project{}, fmt.Errorf("%w: invalid area", ErrInvalidInput)
		}
		if !CanAccess(actor, patch.Area.Value) {
			return models.Project{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, patch.Area.Value)
		}
		updates["area"] = patch.Area.Value
	}
	if patch.Status.Set {
		if !patch.Status.Valid || !models.IsValidProjectStatus(patch.Status.Value) {
			return models.Project{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		updates["status"] = patch.Status.Value
	}
	if patch.StartDate.Set {
		if patch.StartDate.Valid {
			startDate, err := ParseDate(patch.StartDate.Value)
			if err != nil {
				return models.Project{}, err
			}
			updates["start_date"] = startDate
		} else {
			updates["start_date"] = nil
		}
	}
	if patch.EndDate.Set {
		if patch.EndDate.Valid {
			endDate, err := ParseDate(patch.EndDate.Value)
			if err != nil {
				return models.Project{}, err
			}
			updates["end_date"] = endDate
		} else {
			updates["end_date"] = nil
		}
	}

	if err := service.repos.Projects.UpdateByID(projectID, updates); err != nil {
		return models.Project{}, err
	}

	service.activity.Record(actor.ID, models.EntityProject, projectID, models.ActionUpdated,
		fmt.Sprintf("Updated project %q", project.Name))
	return service.repos.Projects.FindByID(projectID)
}

// Delete removes a project and everything hanging off it. Admin only.
func (service *ProjectService) Delete(actor *models.User, projectID uint) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	project, err := service.repos.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return err
	}
	if err := service.repos.Projects.DeleteCascade(projectID); err != nil {
		return err
	}
	service.activity.Record(actor.ID, models.EntityProject, projectID, models.ActionDeleted,
		fmt.Sprintf("Deleted project %q", project.Name))
	return nil
}

// SetRecurrence configures or replaces a project's renewal cadence and
// computes the next execution date from now.
func (service *ProjectService) SetRecurrence(actor *models.User, projectID uint, frequency string, now time.Time) (models.TaskRecurrence, error) {
	if !models.IsValidFrequency(frequency) {
		return models.TaskRecurrence{}, fmt.Errorf("%w: invalid frequency", ErrInvalidInput)
	}
	project, err := service.repos.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TaskRecurrence{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return models.TaskRecurrence{}, err
	}
	if !CanAccess(actor, project.Area) {
		return models.TaskRecurrence{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, project.Area)
	}

	nextExecution := models.NextExecutionFrom(now, frequency)
	if err := service.repos.Recurrences.Upsert(projectID, frequency, nextExecution); err != nil {
		return models.TaskRecurrence{}, err
	}

	service.activity.Record(actor.ID, models.EntityProject, projectID, models.ActionUpdated,
		fmt.Sprintf("Configured %s recurrence for project %q", frequency, project.Name))
	return service.repos.Recurrences.FindActiveByProject(projectID)
}

func (service *ProjectService) enrichTasks(tasks []models.Task) ([]TaskView, error) {
	return enrichTaskViews(service.repos.Users, tasks)
}

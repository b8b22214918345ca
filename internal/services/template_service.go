package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type TemplateStore interface {
	ListActive(area string) ([]models.ProjectTemplate, error)
	FindActiveByID(templateID uint) (models.ProjectTemplate, error)
	Create(template *models.ProjectTemplate) error
	Save(template *models.ProjectTemplate) error
	SoftDelete(templateID uint) error
}

// TemplateService manages reusable project templates and expands them
// into concrete tasks at project creation.
type TemplateService struct {
	templates TemplateStore
	activity  ActivityRecorder
}

func NewTemplateService(templates TemplateStore, activity ActivityRecorder) *TemplateService {
	return &TemplateService{templates: templates, activity: activity}
}

// TemplateInput carries the writable template fields for create and update.
type TemplateInput struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Area         string                `json:"area"`
	DefaultTasks []models.TaskTemplate `json:"default_tasks"`
}

func (input *TemplateInput) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !models.IsValidArea(input.Area) {
		return fmt.Errorf("%w: invalid area", ErrInvalidInput)
	}
	for index := range input.DefaultTasks {
		entry := &input.DefaultTasks[index]
		entry.Title = strings.TrimSpace(entry.Title)
		if entry.Title == "" {
			return fmt.Errorf("%w: default task %d has no title", ErrInvalidInput, index+1)
		}
		if entry.Priority == "" {
			entry.Priority = models.PriorityMedium
		}
		if !models.IsValidPriority(entry.Priority) {
			return fmt.Errorf("%w: default task %d has invalid priority", ErrInvalidInput, index+1)
		}
	}
	return nil
}

// List returns active templates the caller may see, optionally narrowed to
// one area. Collaborators only see templates in their permitted areas.
func (service *TemplateService) List(actor *models.User, area string) ([]models.ProjectTemplate, error) {
	if area != "" {
		if !models.IsValidArea(area) {
			return nil, fmt.Errorf("%w: invalid area", ErrInvalidInput)
		}
		if !CanAccess(actor, area) {
			return []models.ProjectTemplate{}, nil
		}
		return service.templates.ListActive(area)
	}

	templates, err := service.templates.ListActive("")
	if err != nil {
		return nil, err
	}
	visible := make([]models.ProjectTemplate, 0, len(templates))
	for _, template := range templates {
		if CanAccess(actor, template.Area) {
			visible = append(visible, template)
		}
	}
	return visible, nil
}

func (service *TemplateService) Get(actor *models.User, templateID uint) (models.ProjectTemplate, error) {
	template, err := service.templates.FindActiveByID(templateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ProjectTemplate{}, fmt.Errorf("%w: template %d", ErrNotFound, templateID)
	}
	if err != nil {
		return models.ProjectTemplate{}, err
	}
	if !CanAccess(actor, template.Area) {
		return models.ProjectTemplate{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, template.Area)
	}
	return template, nil
}

func (service *TemplateService) Create(actor *models.User, input TemplateInput) (models.ProjectTemplate, error) {
	if !actor.IsAdmin() {
		return models.ProjectTemplate{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	if err := input.validate(); err != nil {
		return models.ProjectTemplate{}, err
	}

	template := models.ProjectTemplate{
		Name:         input.Name,
		Description:  input.Description,
		Area:         input.Area,
		DefaultTasks: input.DefaultTasks,
		IsActive:     true,
		CreatedBy:    actor.ID,
	}
	if err := service.templates.Create(&template); err != nil {
		return models.ProjectTemplate{}, err
	}
	service.activity.Record(actor.ID, models.EntityTemplate, template.ID, models.ActionCreated,
		fmt.Sprintf("Created template %q", template.Name))
	return template, nil
}

func (service *TemplateService) Update(actor *models.User, templateID uint, input TemplateInput) (models.ProjectTemplate, error) {
	if !actor.IsAdmin() {
		return models.ProjectTemplate{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	template, err := service.templates.FindActiveByID(templateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ProjectTemplate{}, fmt.Errorf("%w: template %d", ErrNotFound, templateID)
	}
	if err != nil {
		return models.ProjectTemplate{}, err
	}
	if err := input.validate(); err != nil {
		return models.ProjectTemplate{}, err
	}

	template.Name = input.Name
	template.Description = input.Description
	template.Area = input.Area
	template.DefaultTasks = input.DefaultTasks
	if err := service.templates.Save(&template); err != nil {
		return models.ProjectTemplate{}, err
	}
	service.activity.Record(actor.ID, models.EntityTemplate, template.ID, models.ActionUpdated,
		fmt.Sprintf("Updated template %q", template.Name))
	return template, nil
}

// Delete deactivates a template. Projects already instantiated from it keep
// their tasks; the template just stops being offered.
func (service *TemplateService) Delete(actor *models.User, templateID uint) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	template, err := service.templates.FindActiveByID(templateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: template %d", ErrNotFound, templateID)
	}
	if err != nil {
		return err
	}
	if err := service.templates.SoftDelete(templateID); err != nil {
		return err
	}
	service.activity.Record(actor.ID, models.EntityTemplate, templateID, models.ActionDeleted,
		fmt.Sprintf("Deactivated template %q", template.Name))
	return nil
}

// BuildTemplateTasks expands a template's default tasks into pending tasks
// for the given project, preserving order. Tasks inherit the project's
// area, not the template's: a template applied to a project created in
// another area follows the project.
func BuildTemplateTasks(template models.ProjectTemplate, project *models.Project, actorID uint) []models.Task {
	tasks := make([]models.Task, 0, len(template.DefaultTasks))
	for _, entry := range template.DefaultTasks {
		priority := entry.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		task := models.Task{
			Title:       entry.Title,
			Description: entry.Description,
			Area:        project.Area,
			Status:      models.TaskStatusPending,
			Priority:    priority,
			CreatedBy:   actorID,
		}
		if entry.EstimatedHours > 0 {
			hours := entry.EstimatedHours
			task.EstimatedHours = &hours
		}
		tasks = append(tasks, task)
	}
	return tasks
}

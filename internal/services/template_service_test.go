package services

import (
	"errors"
	"testing"

	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type stubTemplateStore struct {
	templates  []models.ProjectTemplate
	created    *models.ProjectTemplate
	saved      *models.ProjectTemplate
	softDelete []uint
}

func (s *stubTemplateStore) ListActive(area string) ([]models.ProjectTemplate, error) {
	if area == "" {
		return s.templates, nil
	}
	matching := make([]models.ProjectTemplate, 0)
	for _, template := range s.templates {
		if template.Area == area {
			matching = append(matching, template)
		}
	}
	return matching, nil
}

func (s *stubTemplateStore) FindActiveByID(templateID uint) (models.ProjectTemplate, error) {
	for _, template := range s.templates {
		if template.ID == templateID {
			return template, nil
		}
	}
	return models.ProjectTemplate{}, gorm.ErrRecordNotFound
}

func (s *stubTemplateStore) Create(template *models.ProjectTemplate) error {
	template.ID = 100
	s.created = template
	return nil
}

func (s *stubTemplateStore) Save(template *models.ProjectTemplate) error {
	s.saved = template
	return nil
}

func (s *stubTemplateStore) SoftDelete(templateID uint) error {
	s.softDelete = append(s.softDelete, templateID)
	return nil
}

func TestTemplateListScopedToAllowedAreas(t *testing.T) {
	store := &stubTemplateStore{templates: []models.ProjectTemplate{
		{ID: 1, Name: "Blog batch", Area: models.AreaCopywriting},
		{ID: 2, Name: "Spot", Area: models.AreaVideo},
	}}
	service := NewTemplateService(store, &stubRecorder{})

	visible, err := service.List(copywritingUser(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != 1 {
		t.Fatalf("expected only the copywriting template, got %v", visible)
	}

	all, err := service.List(adminUser(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admin to see both templates, got %d", len(all))
	}
}

func TestTemplateListRestrictedAreaReturnsEmpty(t *testing.T) {
	store := &stubTemplateStore{templates: []models.ProjectTemplate{
		{ID: 2, Name: "Spot", Area: models.AreaVideo},
	}}
	service := NewTemplateService(store, &stubRecorder{})

	visible, err := service.List(copywritingUser(), models.AreaVideo)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected empty result for restricted area, got %v", visible)
	}
}

func TestTemplateGetForbiddenOutsideArea(t *testing.T) {
	store := &stubTemplateStore{templates: []models.ProjectTemplate{
		{ID: 2, Name: "Spot", Area: models.AreaVideo},
	}}
	service := NewTemplateService(store, &stubRecorder{})

	_, err := service.Get(copywritingUser(), 2)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTemplateMutationsAdminOnly(t *testing.T) {
	store := &stubTemplateStore{templates: []models.ProjectTemplate{
		{ID: 1, Name: "Blog batch", Area: models.AreaCopywriting},
	}}
	service := NewTemplateService(store, &stubRecorder{})
	input := TemplateInput{Name: "x", Area: models.AreaCopywriting}

	if _, err := service.Create(copywritingUser(), input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("create: expected ErrForbidden, got %v", err)
	}
	if _, err := service.Update(copywritingUser(), 1, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update: expected ErrForbidden, got %v", err)
	}
	if err := service.Delete(copywritingUser(), 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete: expected ErrForbidden, got %v", err)
	}
}

func TestTemplateCreateDefaultsEntryPriority(t *testing.T) {
	store := &stubTemplateStore{}
	recorder := &stubRecorder{}
	service := NewTemplateService(store, recorder)

	input := TemplateInput{
		Name: "Campaign kit",
		Area: models.AreaAdv,
		DefaultTasks: []models.TaskTemplate{
			{Title: "Brief"},
			{Title: "Setup", Priority: models.PriorityHigh},
		},
	}
	template, err := service.Create(adminUser(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if template.DefaultTasks[0].Priority != models.PriorityMedium {
		t.Fatalf("expected defaulted priority medium, got %s", template.DefaultTasks[0].Priority)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].action != models.ActionCreated {
		t.Fatalf("expected created entry, got %v", recorder.actions())
	}
}

func TestTemplateCreateRejectsBadInput(t *testing.T) {
	service := NewTemplateService(&stubTemplateStore{}, &stubRecorder{})

	cases := []TemplateInput{
		{Name: "", Area: models.AreaAdv},
		{Name: "x", Area: "finance"},
		{Name: "x", Area: models.AreaAdv, DefaultTasks: []models.TaskTemplate{{Title: "  "}}},
		{Name: "x", Area: models.AreaAdv, DefaultTasks: []models.TaskTemplate{{Title: "ok", Priority: "extreme"}}},
	}
	for index, input := range cases {
		if _, err := service.Create(adminUser(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", index, err)
		}
	}
}

func TestTemplateDeleteIsSoft(t *testing.T) {
	store := &stubTemplateStore{templates: []models.ProjectTemplate{
		{ID: 7, Name: "Blog batch", Area: models.AreaCopywriting},
	}}
	service := NewTemplateService(store, &stubRecorder{})

	if err := service.Delete(adminUser(), 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.softDelete) != 1 || store.softDelete[0] != 7 {
		t.Fatalf("expected soft delete of template 7, got %v", store.softDelete)
	}
}

func TestBuildTemplateTasksInheritsProjectArea(t *testing.T) {
	hours := 16.0
	template := models.ProjectTemplate{
		Area: models.AreaCopywriting,
		DefaultTasks: []models.TaskTemplate{
			{Title: "Script", Priority: models.PriorityHigh, EstimatedHours: hours},
			{Title: "Review"},
		},
	}
	project := &models.Project{ID: 3, Area: models.AreaVideo}

	tasks := BuildTemplateTasks(template, project, 9)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Script" || tasks[1].Title != "Review" {
		t.Fatalf("expected stored order preserved, got %q then %q", tasks[0].Title, tasks[1].Title)
	}
	for _, task := range tasks {
		if task.Area != models.AreaVideo {
			t.Fatalf("expected project area inherited, got %s", task.Area)
		}
		if task.Status != models.TaskStatusPending {
			t.Fatalf("expected pending status, got %s", task.Status)
		}
		if task.CreatedBy != 9 {
			t.Fatalf("expected creator 9, got %d", task.CreatedBy)
		}
	}
	if tasks[0].EstimatedHours == nil || *tasks[0].EstimatedHours != hours {
		t.Fatalf("expected estimated hours carried over")
	}
	if tasks[1].EstimatedHours != nil {
		t.Fatalf("expected nil estimated hours when entry has none")
	}
	if tasks[1].Priority != models.PriorityMedium {
		t.Fatalf("expected defaulted medium priority, got %s", tasks[1].Priority)
	}
}

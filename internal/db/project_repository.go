package db

import (
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	database *gorm.DB
}

func NewProjectRepository(database *gorm.DB) *ProjectRepository {
	return &ProjectRepository{database: database}
}

// ProjectFilter narrows List. Areas nil means unrestricted; an empty,
// non-nil slice matches nothing and callers are expected to short-circuit
// before reaching the store.
type ProjectFilter struct {
	Areas    []string
	ClientID *uint
	Area     string
	Status   string
}

func (repo *ProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	query := repo.database.Order("created_at DESC")
	if filter.Areas != nil {
		query = query.Where("area IN ?", filter.Areas)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (repo *ProjectRepository) FindByID(projectID uint) (models.Project, error) {
	var project models.Project
	if err := repo.database.First(&project, projectID).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// CreateWithTasks inserts the project and, when instantiated from a
// template, its initial tasks in one transaction so a storage failure
// cannot leave a half-built project behind.
func (repo *ProjectRepository) CreateWithTasks(project *models.Project, tasks []models.Task) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		for index := range tasks {
			tasks[index].ProjectID = project.ID
			if err := tx.Create(&tasks[index]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *ProjectRepository) UpdateByID(projectID uint, updates map[string]any) error {
	return repo.database.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error
}

// DeleteCascade removes the project together with its tasks and any
// recurrence configuration.
func (repo *ProjectRepository) DeleteCascade(projectID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.TaskRecurrence{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, projectID).Error
	})
}

// NamesByID resolves project display names for the given ids.
func (repo *ProjectRepository) NamesByID(projectIDs []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uint
		Name string
	}
	if err := repo.database.Model(&models.Project{}).
		Select("id", "name").
		Where("id IN ?", projectIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (repo *ProjectRepository) CountByClient(clientID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Project{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *ProjectRepository) CountFiltered(areas []string, status string) (int64, error) {
	var count int64
	query := repo.database.Model(&models.Project{})
	if areas != nil {
		query = query.Where("area IN ?", areas)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClientProjectCounts is one row of the projects-by-client rollup.
type ClientProjectCounts struct {
	ClientID          uint   `gorm:"column:client_id" json:"client_id"`
	ClientName        string `gorm:"column:client_name" json:"client_name"`
	TotalProjects     int64  `gorm:"column:total_projects" json:"total_projects"`
	ActiveProjects    int64  `gorm:"column:active_projects" json:"active_projects"`
	CompletedProjects int64  `gorm:"column:completed_projects" json:"completed_projects"`
}

// CountsByClient groups project counts per client. A non-nil area set
// restricts which projects count toward the totals; clients without
// visible projects still appear with zeroes.
func (repo *ProjectRepository) CountsByClient(areas []string) ([]ClientProjectCounts, error) {
	query := `
SELECT c.id AS client_id,
       c.name AS client_name,
       COUNT(p.id) AS total_projects,
       COALESCE(SUM(CASE WHEN p.status = 'active' THEN 1 ELSE 0 END), 0) AS active_projects,
       COALESCE(SUM(CASE WHEN p.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_projects
FROM clients c
LEFT JOIN projects p ON c.id = p.client_id`
	args := make([]any, 0, 1)
	if areas != nil {
		query += ` AND p.area IN ?`
		args = append(args, areas)
	}
	query += `
GROUP BY c.id, c.name
ORDER BY active_projects DESC, total_projects DESC`

	rows := make([]ClientProjectCounts, 0)
	if err := repo.database.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

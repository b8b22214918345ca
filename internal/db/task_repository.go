package db

import (
	"time"

	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

// priorityRankSQL orders the priority enumeration by urgency; the strings
// do not sort usefully on their own.
const priorityRankSQL = `CASE priority
WHEN 'urgent' THEN 3
WHEN 'high' THEN 2
WHEN 'medium' THEN 1
ELSE 0 END`

// TaskFilter narrows List. Areas nil means unrestricted.
type TaskFilter struct {
	Areas      []string
	ProjectID  *uint
	AssignedTo *uint
	Status     string
	Area       string
	Month      string // YYYY-MM, matches the task creation month
}

func (repo *TaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	query := repo.database.Order(priorityRankSQL + " DESC, due_date ASC, created_at DESC")
	if filter.Areas != nil {
		query = query.Where("area IN ?", filter.Areas)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}
	if filter.Month != "" {
		query = query.Where("strftime('%Y-%m', created_at) = ?", filter.Month)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject orders by priority then due date, the detail-page order.
func (repo *TaskRepository) ListByProject(projectID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("project_id = ?", projectID).
		Order(priorityRankSQL + " DESC, due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProjectTimeline orders by due date then priority, the timeline order.
func (repo *TaskRepository) ListByProjectTimeline(projectID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("project_id = ?", projectID).
		Order("due_date ASC, " + priorityRankSQL + " DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) ListByAssignee(userID uint, status string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	query := repo.database.
		Where("assigned_to = ?", userID).
		Order(priorityRankSQL + " DESC, due_date ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAssignedInWindow selects the workload population for one assignee:
// tasks due inside the window, tasks without a due date, and incomplete
// tasks regardless of date so overdue work always surfaces.
func (repo *TaskRepository) ListAssignedInWindow(userID uint, start time.Time, end time.Time) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("assigned_to = ?", userID).
		Where("due_date IS NULL OR (due_date >= ? AND due_date <= ?) OR status != ?",
			start, end, models.TaskStatusCompleted).
		Order("due_date ASC, " + priorityRankSQL + " DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) FindByID(taskID uint) (models.Task, error) {
	var task models.Task
	if err := repo.database.First(&task, taskID).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *TaskRepository) Create(task *models.Task) error {
	return repo.database.Create(task).Error
}

func (repo *TaskRepository) UpdateByID(taskID uint, updates map[string]any) error {
	return repo.database.Model(&models.Task{}).Where("id = ?", taskID).Updates(updates).Error
}

func (repo *TaskRepository) Delete(taskID uint) error {
	return repo.database.Delete(&models.Task{}, taskID).Error
}

func (repo *TaskRepository) CountByStatus(status string, areas []string) (int64, error) {
	var count int64
	query := repo.database.Model(&models.Task{}).Where("status = ?", status)
	if areas != nil {
		query = query.Where("area IN ?", areas)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountsByArea returns raw per-area task counts; the dashboard zero-fills
// the missing areas.
func (repo *TaskRepository) CountsByArea(areas []string) (map[string]int64, error) {
	var rows []struct {
		Area  string
		Count int64
	}
	query := repo.database.Model(&models.Task{}).
		Select("area, COUNT(*) AS count").
		Group("area")
	if areas != nil {
		query = query.Where("area IN ?", areas)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Area] = row.Count
	}
	return counts, nil
}

// AreaActivity is one row of the monthly activity rollup.
type AreaActivity struct {
	Area            string `gorm:"column:area" json:"area"`
	TotalTasks      int64  `gorm:"column:total_tasks" json:"total_tasks"`
	CompletedTasks  int64  `gorm:"column:completed_tasks" json:"completed_tasks"`
	PendingTasks    int64  `gorm:"column:pending_tasks" json:"pending_tasks"`
	InProgressTasks int64  `gorm:"column:in_progress_tasks" json:"in_progress_tasks"`
}

// MonthlyByArea groups tasks created in a YYYY-MM month by area.
func (repo *TaskRepository) MonthlyByArea(month string, areas []string) ([]AreaActivity, error) {
	query := `
SELECT area,
       COUNT(*) AS total_tasks,
       SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed_tasks,
       SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending_tasks,
       SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END) AS in_progress_tasks
FROM tasks
WHERE strftime('%Y-%m', created_at) = ?`
	args := []any{month}
	if areas != nil {
		query += ` AND area IN ?`
		args = append(args, areas)
	}
	query += `
GROUP BY area`

	rows := make([]AreaActivity, 0)
	if err := repo.database.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// StatusCounts aggregates one task population for summaries.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Overdue    int64 `json:"overdue"`
}

func (repo *TaskRepository) CountsForProject(projectID uint, today time.Time) (StatusCounts, error) {
	return repo.statusCounts(repo.database.Model(&models.Task{}).Where("project_id = ?", projectID), today)
}

func (repo *TaskRepository) CountsForAssignee(userID uint, today time.Time) (StatusCounts, error) {
	return repo.statusCounts(repo.database.Model(&models.Task{}).Where("assigned_to = ?", userID), today)
}

func (repo *TaskRepository) statusCounts(base *gorm.DB, today time.Time) (StatusCounts, error) {
	var row struct {
		Total      int64
		Completed  int64
		Pending    int64
		InProgress int64
		Overdue    int64
	}
	if err := base.Session(&gorm.Session{}).
		Select(`COUNT(*) AS total,
SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed,
SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending,
SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END) AS in_progress,
SUM(CASE WHEN status != 'completed' AND due_date IS NOT NULL AND due_date < ? THEN 1 ELSE 0 END) AS overdue`, today).
		Scan(&row).Error; err != nil {
		return StatusCounts{}, err
	}
	return StatusCounts{
		Total:      row.Total,
		Completed:  row.Completed,
		Pending:    row.Pending,
		InProgress: row.InProgress,
		Overdue:    row.Overdue,
	}, nil
}

// CountDueToday counts an assignee's incomplete tasks due exactly today.
func (repo *TaskRepository) CountDueToday(userID uint, today time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Task{}).
		Where("assigned_to = ? AND status != ? AND due_date = ?", userID, models.TaskStatusCompleted, today).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

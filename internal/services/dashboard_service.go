package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/models"
)

const recentActivityLimit = 20

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// DashboardService assembles the landing-page aggregates, each one scoped
// to the caller's allowed areas.
type DashboardService struct {
	repos *db.Repositories
}

func NewDashboardService(repos *db.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

type DashboardStats struct {
	TotalProjects  int64              `json:"total_projects"`
	ActiveProjects int64              `json:"active_projects"`
	CompletedTasks int64              `json:"completed_tasks"`
	PendingTasks   int64              `json:"pending_tasks"`
	TotalClients   *int64             `json:"total_clients,omitempty"`
	TasksByArea    map[string]int64   `json:"tasks_by_area"`
	RecentActivity []db.ActivityEntry `json:"recent_activity"`
}

type MyTasksSummary struct {
	db.StatusCounts
	DueToday int64 `json:"due_today"`
}

// Stats computes the headline numbers. Collaborators only count work in
// their permitted areas; the client total is an admin-only figure. The
// activity feed is global for everyone.
func (service *DashboardService) Stats(actor *models.User) (DashboardStats, error) {
	stats := DashboardStats{TasksByArea: zeroFilledAreas()}

	allowed := AllowedAreas(actor)
	if allowed == nil || len(allowed) > 0 {
		var err error
		if stats.TotalProjects, err = service.repos.Projects.CountFiltered(allowed, ""); err != nil {
			return DashboardStats{}, err
		}
		if stats.ActiveProjects, err = service.repos.Projects.CountFiltered(allowed, models.ProjectStatusActive); err != nil {
			return DashboardStats{}, err
		}
		if stats.CompletedTasks, err = service.repos.Tasks.CountByStatus(models.TaskStatusCompleted, allowed); err != nil {
			return DashboardStats{}, err
		}
		if stats.PendingTasks, err = service.repos.Tasks.CountByStatus(models.TaskStatusPending, allowed); err != nil {
			return DashboardStats{}, err
		}
		areaCounts, err := service.repos.Tasks.CountsByArea(allowed)
		if err != nil {
			return DashboardStats{}, err
		}
		for area, count := range areaCounts {
			stats.TasksByArea[area] = count
		}
	}

	if actor.IsAdmin() {
		totalClients, err := service.repos.Clients.CountActive()
		if err != nil {
			return DashboardStats{}, err
		}
		stats.TotalClients = &totalClients
	}

	recent, err := service.repos.Activities.Recent(recentActivityLimit)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.RecentActivity = recent
	return stats, nil
}

// MonthlyActivities breaks down the tasks created in one YYYY-MM month by
// area, zero-filling the areas the caller may see.
func (service *DashboardService) MonthlyActivities(actor *models.User, month string, now time.Time) ([]db.AreaActivity, error) {
	if month == "" {
		month = now.Format("2006-01")
	}
	if !monthPattern.MatchString(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}

	allowed := AllowedAreas(actor)
	visible := allowed
	if visible == nil {
		visible = models.Areas()
	}
	if len(visible) == 0 {
		return []db.AreaActivity{}, nil
	}

	rows, err := service.repos.Tasks.MonthlyByArea(month, allowed)
	if err != nil {
		return nil, err
	}
	byArea := make(map[string]db.AreaActivity, len(rows))
	for _, row := range rows {
		byArea[row.Area] = row
	}

	activities := make([]db.AreaActivity, 0, len(visible))
	for _, area := range visible {
		row, present := byArea[area]
		if !present {
			row = db.AreaActivity{Area: area}
		}
		activities = append(activities, row)
	}
	return activities, nil
}

// MyTasks summarizes the caller's own assignments, including the count
// due exactly today.
func (service *DashboardService) MyTasks(actor *models.User, today time.Time) (MyTasksSummary, error) {
	counts, err := service.repos.Tasks.CountsForAssignee(actor.ID, today)
	if err != nil {
		return MyTasksSummary{}, err
	}
	dueToday, err := service.repos.Tasks.CountDueToday(actor.ID, today)
	if err != nil {
		return MyTasksSummary{}, err
	}
	return MyTasksSummary{StatusCounts: counts, DueToday: dueToday}, nil
}

// ProjectsByClient rolls up project counts per client. Collaborator rows
// only count projects in permitted areas; every client still appears.
func (service *DashboardService) ProjectsByClient(actor *models.User) ([]db.ClientProjectCounts, error) {
	allowed := AllowedAreas(actor)
	if allowed != nil && len(allowed) == 0 {
		return []db.ClientProjectCounts{}, nil
	}
	return service.repos.Projects.CountsByClient(allowed)
}

func zeroFilledAreas() map[string]int64 {
	counts := make(map[string]int64, 4)
	for _, area := range models.Areas() {
		counts[area] = 0
	}
	return counts
}

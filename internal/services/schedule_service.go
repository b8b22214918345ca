package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

const defaultWorkloadDays = 90

// ScheduleService builds the gantt-style read models: per-project
// timelines, the team workload board, the fleet overview and per-user
// timelines.
type ScheduleService struct {
	repos *db.Repositories
}

func NewScheduleService(repos *db.Repositories) *ScheduleService {
	return &ScheduleService{repos: repos}
}

// TimelineTask is a task placed on a timeline grid.
type TimelineTask struct {
	TaskView
	Offset int `json:"offset"`
	Width  int `json:"width"`
}

type ProjectTimelineView struct {
	Project models.Project `json:"project"`
	Tasks   []TimelineTask `json:"tasks"`
	MinDate string         `json:"min_date"`
	MaxDate string         `json:"max_date"`
}

type UserWorkload struct {
	UserID uint       `json:"user_id"`
	Name   string     `json:"name"`
	Tasks  []TaskView `json:"tasks"`
	Stats  TaskStats  `json:"stats"`
}

type WorkloadView struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Users     []UserWorkload `json:"users"`
}

type ProjectOverview struct {
	Project models.Project `json:"project"`
	Tasks   []TaskView     `json:"tasks"`
	Stats   TaskStats      `json:"stats"`
}

type FleetStats struct {
	TotalProjects  int `json:"total_projects"`
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	CompletionRate int `json:"completion_rate"`
}

type OverviewView struct {
	Projects []ProjectOverview `json:"projects"`
	Stats    FleetStats        `json:"stats"`
}

type ProjectTaskGroup struct {
	ProjectID   uint           `json:"project_id"`
	ProjectName string         `json:"project_name"`
	Tasks       []TimelineTask `json:"tasks"`
}

type UserTimelineView struct {
	UserID    uint               `json:"user_id"`
	UserName  string             `json:"user_name"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Projects  []ProjectTaskGroup `json:"projects"`
}

// ProjectTimeline lays out one project's tasks on a date range derived
// from the project dates and the tasks' due dates.
func (service *ScheduleService) ProjectTimeline(actor *models.User, projectID uint, today time.Time) (ProjectTimelineView, error) {
	project, err := service.repos.Projects.FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProjectTimelineView{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if err != nil {
		return ProjectTimelineView{}, err
	}
	if !CanAccess(actor, project.Area) {
		return ProjectTimelineView{}, fmt.Errorf("%w: no permission for area %s", ErrForbidden, project.Area)
	}

	tasks, err := service.repos.Tasks.ListByProjectTimeline(projectID)
	if err != nil {
		return ProjectTimelineView{}, err
	}
	minDate, maxDate := TimelineRange(project, tasks, today)

	views, err := enrichTaskViews(service.repos.Users, tasks)
	if err != nil {
		return ProjectTimelineView{}, err
	}
	placed := make([]TimelineTask, 0, len(views))
	for index, view := range views {
		offset, width := GanttBar(tasks[index], minDate)
		placed = append(placed, TimelineTask{TaskView: view, Offset: offset, Width: width})
	}

	return ProjectTimelineView{
		Project: project,
		Tasks:   placed,
		MinDate: FormatDate(minDate),
		MaxDate: FormatDate(maxDate),
	}, nil
}

// Workload reports, for every active collaborator, the tasks landing in
// the window plus any older unfinished ones, with a status breakdown.
// Admin only.
func (service *ScheduleService) Workload(actor *models.User, startDate string, endDate string, today time.Time) (WorkloadView, error) {
	if !actor.IsAdmin() {
		return WorkloadView{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}

	start, end, err := resolveWindow(startDate, endDate, today)
	if err != nil {
		return WorkloadView{}, err
	}

	collaborators, err := service.repos.Users.ListActiveCollaborators()
	if err != nil {
		return WorkloadView{}, err
	}

	view := WorkloadView{
		StartDate: FormatDate(start),
		EndDate:   FormatDate(end),
		Users:     make([]UserWorkload, 0, len(collaborators)),
	}
	for _, collaborator := range collaborators {
		tasks, err := service.repos.Tasks.ListAssignedInWindow(collaborator.ID, start, end)
		if err != nil {
			return WorkloadView{}, err
		}
		views, err := enrichTaskViews(service.repos.Users, tasks)
		if err != nil {
			return WorkloadView{}, err
		}
		view.Users = append(view.Users, UserWorkload{
			UserID: collaborator.ID,
			Name:   collaborator.Name,
			Tasks:  views,
			Stats:  CountTaskStats(tasks, today),
		})
	}
	return view, nil
}

// Overview summarizes every project in a status bucket (active by
// default), with per-project task breakdowns and fleet totals. Admin only.
func (service *ScheduleService) Overview(actor *models.User, status string, area string, today time.Time) (OverviewView, error) {
	if !actor.IsAdmin() {
		return OverviewView{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !models.IsValidProjectStatus(status) {
		return OverviewView{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if area != "" && !models.IsValidArea(area) {
		return OverviewView{}, fmt.Errorf("%w: invalid area", ErrInvalidInput)
	}

	projects, err := service.repos.Projects.List(db.ProjectFilter{Area: area, Status: status})
	if err != nil {
		return OverviewView{}, err
	}

	view := OverviewView{Projects: make([]ProjectOverview, 0, len(projects))}
	for _, project := range projects {
		tasks, err := service.repos.Tasks.ListByProject(project.ID)
		if err != nil {
			return OverviewView{}, err
		}
		views, err := enrichTaskViews(service.repos.Users, tasks)
		if err != nil {
			return OverviewView{}, err
		}
		stats := CountTaskStats(tasks, today)
		view.Projects = append(view.Projects, ProjectOverview{Project: project, Tasks: views, Stats: stats})

		view.Stats.TotalTasks += stats.Total
		view.Stats.CompletedTasks += stats.Completed
		view.Stats.OverdueTasks += stats.Overdue
	}
	view.Stats.TotalProjects = len(projects)
	view.Stats.CompletionRate = CompletionRate(view.Stats.CompletedTasks, view.Stats.TotalTasks)
	return view, nil
}

// UserTimeline lays out one user's tasks in a window, grouped by project.
// Collaborators may only look at themselves.
func (service *ScheduleService) UserTimeline(actor *models.User, userID uint, startDate string, endDate string, today time.Time) (UserTimelineView, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return UserTimelineView{}, fmt.Errorf("%w: own timeline only", ErrForbidden)
	}

	user, err := service.repos.Users.FindActiveByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UserTimelineView{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return UserTimelineView{}, err
	}

	start, end, err := resolveWindow(startDate, endDate, today)
	if err != nil {
		return UserTimelineView{}, err
	}

	tasks, err := service.repos.Tasks.ListAssignedInWindow(userID, start, end)
	if err != nil {
		return UserTimelineView{}, err
	}

	projectIDs := make([]uint, 0, len(tasks))
	seen := make(map[uint]bool)
	for _, task := range tasks {
		if !seen[task.ProjectID] {
			seen[task.ProjectID] = true
			projectIDs = append(projectIDs, task.ProjectID)
		}
	}
	projectNames, err := service.repos.Projects.NamesByID(projectIDs)
	if err != nil {
		return UserTimelineView{}, err
	}

	groups := make(map[uint]*ProjectTaskGroup, len(projectIDs))
	ordered := make([]*ProjectTaskGroup, 0, len(projectIDs))
	for _, projectID := range projectIDs {
		group := &ProjectTaskGroup{ProjectID: projectID, ProjectName: projectNames[projectID]}
		groups[projectID] = group
		ordered = append(ordered, group)
	}
	for _, task := range tasks {
		offset, width := GanttBar(task, start)
		group := groups[task.ProjectID]
		group.Tasks = append(group.Tasks, TimelineTask{
			TaskView: TaskView{Task: task, AssigneeName: user.Name},
			Offset:   offset,
			Width:    width,
		})
	}

	view := UserTimelineView{
		UserID:    user.ID,
		UserName:  user.Name,
		StartDate: FormatDate(start),
		EndDate:   FormatDate(end),
		Projects:  make([]ProjectTaskGroup, 0, len(ordered)),
	}
	for _, group := range ordered {
		view.Projects = append(view.Projects, *group)
	}
	return view, nil
}

// resolveWindow parses an optional date window, defaulting to the next
// ninety days.
func resolveWindow(startDate string, endDate string, today time.Time) (time.Time, time.Time, error) {
	start := today
	end := today.AddDate(0, 0, defaultWorkloadDays)
	if startDate != "" {
		parsed, err := ParseDate(startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := ParseDate(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	return start, end, nil
}

// enrichTaskViews attaches assignee display names to a task list.
func enrichTaskViews(users *db.UserRepository, tasks []models.Task) ([]TaskView, error) {
	assigneeIDs := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		if task.AssignedTo != nil {
			assigneeIDs = append(assigneeIDs, *task.AssignedTo)
		}
	}
	names, err := users.NamesByID(assigneeIDs)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := TaskView{Task: task}
		if task.AssignedTo != nil {
			view.AssigneeName = names[*task.AssignedTo]
		}
		views = append(views, view)
	}
	return views, nil
}

package api

import (
	"time"

	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/services"
	"github.com/rs/zerolog"
)

// Handler bundles the services behind the HTTP surface. One instance
// serves every route.
type Handler struct {
	secretKey []byte
	location  *time.Location
	logger    zerolog.Logger

	auth      *services.AuthService
	users     *services.UserService
	clients   *services.ClientService
	templates *services.TemplateService
	projects  *services.ProjectService
	tasks     *services.TaskService
	schedule  *services.ScheduleService
	dashboard *services.DashboardService
}

func NewHandler(repos *db.Repositories, secretKey []byte, location *time.Location, logger zerolog.Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	activity := services.NewActivityLogger(repos.Activities, logger)

	return &Handler{
		secretKey: secretKey,
		location:  location,
		logger:    logger,
		auth:      services.NewAuthService(repos.Users),
		users:     services.NewUserService(repos.Users, activity),
		clients:   services.NewClientService(repos.Clients, repos.Projects, activity),
		templates: services.NewTemplateService(repos.Templates, activity),
		projects:  services.NewProjectService(repos, activity),
		tasks:     services.NewTaskService(repos.Tasks, repos.Projects, activity),
		schedule:  services.NewScheduleService(repos),
		dashboard: services.NewDashboardService(repos),
	}
}

// today is the current calendar day in the configured timezone,
// normalized so date comparisons line up with stored values.
func (handler *Handler) today() time.Time {
	return services.DateAtLocation(time.Now(), handler.location)
}

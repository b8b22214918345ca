package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Clients     *ClientRepository
	Templates   *TemplateRepository
	Projects    *ProjectRepository
	Tasks       *TaskRepository
	Recurrences *RecurrenceRepository
	Activities  *ActivityRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Clients:     NewClientRepository(database),
		Templates:   NewTemplateRepository(database),
		Projects:    NewProjectRepository(database),
		Tasks:       NewTaskRepository(database),
		Recurrences: NewRecurrenceRepository(database),
		Activities:  NewActivityRepository(database),
	}
}

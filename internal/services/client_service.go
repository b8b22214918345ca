package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type ClientStore interface {
	List(createdBy *uint) ([]models.Client, error)
	FindByID(clientID uint) (models.Client, error)
	Create(client *models.Client) error
	UpdateByID(clientID uint, updates map[string]any) error
	Delete(clientID uint) error
}

type ClientProjectCounter interface {
	CountByClient(clientID uint) (int64, error)
}

// ClientService manages the agency's client registry. Collaborators only
// see the clients they registered themselves.
type ClientService struct {
	clients  ClientStore
	projects ClientProjectCounter
	activity ActivityRecorder
}

func NewClientService(clients ClientStore, projects ClientProjectCounter, activity ActivityRecorder) *ClientService {
	return &ClientService{clients: clients, projects: projects, activity: activity}
}

// ClientInput carries the writable client fields for create and update.
type ClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
	Status  string `json:"status"`
}

func (input *ClientInput) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = models.ClientStatusActive
	}
	if !models.IsValidClientStatus(input.Status) {
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return nil
}

func (service *ClientService) List(actor *models.User) ([]models.Client, error) {
	if actor.IsAdmin() {
		return service.clients.List(nil)
	}
	return service.clients.List(&actor.ID)
}

func (service *ClientService) Get(actor *models.User, clientID uint) (models.Client, error) {
	client, err := service.clients.FindByID(clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Client{}, fmt.Errorf("%w: client %d", ErrNotFound, clientID)
	}
	if err != nil {
		return models.Client{}, err
	}
	if !actor.IsAdmin() && client.CreatedBy != actor.ID {
		return models.Client{}, fmt.Errorf("%w: not your client", ErrForbidden)
	}
	return client, nil
}

func (service *ClientService) Create(actor *models.User, input ClientInput) (models.Client, error) {
	if err := input.validate(); err != nil {
		return models.Client{}, err
	}

	client := models.Client{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Company:   input.Company,
		Notes:     input.Notes,
		Status:    input.Status,
		CreatedBy: actor.ID,
	}
	if err := service.clients.Create(&client); err != nil {
		return models.Client{}, err
	}

	service.activity.Record(actor.ID, models.EntityClient, client.ID, models.ActionCreated,
		fmt.Sprintf("Created client %q", client.Name))
	return client, nil
}

func (service *ClientService) Update(actor *models.User, clientID uint, input ClientInput) (models.Client, error) {
	client, err := service.Get(actor, clientID)
	if err != nil {
		return models.Client{}, err
	}
	if err := input.validate(); err != nil {
		return models.Client{}, err
	}

	updates := map[string]any{
		"name":    input.Name,
		"email":   input.Email,
		"phone":   input.Phone,
		"company": input.Company,
		"notes":   input.Notes,
		"status":  input.Status,
	}
	if err := service.clients.UpdateByID(clientID, updates); err != nil {
		return models.Client{}, err
	}

	service.activity.Record(actor.ID, models.EntityClient, clientID, models.ActionUpdated,
		fmt.Sprintf("Updated client %q", client.Name))
	return service.clients.FindByID(clientID)
}

// Delete removes a client. Admin only, and refused while any project
// still references the client.
func (service *ClientService) Delete(actor *models.User, clientID uint) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	client, err := service.clients.FindByID(clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: client %d", ErrNotFound, clientID)
	}
	if err != nil {
		return err
	}

	referencing, err := service.projects.CountByClient(clientID)
	if err != nil {
		return err
	}
	if referencing > 0 {
		return fmt.Errorf("%w: client has %d projects", ErrConflict, referencing)
	}

	if err := service.clients.Delete(clientID); err != nil {
		return err
	}
	service.activity.Record(actor.ID, models.EntityClient, clientID, models.ActionDeleted,
		fmt.Sprintf("Deleted client %q", client.Name))
	return nil
}

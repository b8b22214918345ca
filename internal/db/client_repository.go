package db

import (
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type ClientRepository struct {
	database *gorm.DB
}

func NewClientRepository(database *gorm.DB) *ClientRepository {
	return &ClientRepository{database: database}
}

// List returns clients newest first. A non-nil createdBy restricts the
// result to clients created by that user.
func (repo *ClientRepository) List(createdBy *uint) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	query := repo.database.Order("created_at DESC")
	if createdBy != nil {
		query = query.Where("created_by = ?", *createdBy)
	}
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (repo *ClientRepository) FindByID(clientID uint) (models.Client, error) {
	var client models.Client
	if err := repo.database.First(&client, clientID).Error; err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (repo *ClientRepository) Create(client *models.Client) error {
	return repo.database.Create(client).Error
}

func (repo *ClientRepository) UpdateByID(clientID uint, updates map[string]any) error {
	return repo.database.Model(&models.Client{}).Where("id = ?", clientID).Updates(updates).Error
}

func (repo *ClientRepository) Delete(clientID uint) error {
	return repo.database.Delete(&models.Client{}, clientID).Error
}

func (repo *ClientRepository) CountActive() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Client{}).
		Where("status = ?", models.ClientStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

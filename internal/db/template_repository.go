package db

import (
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	database *gorm.DB
}

func NewTemplateRepository(database *gorm.DB) *TemplateRepository {
	return &TemplateRepository{database: database}
}

// ListActive returns active templates newest first, optionally restricted
// to one area.
func (repo *TemplateRepository) ListActive(area string) ([]models.ProjectTemplate, error) {
	templates := make([]models.ProjectTemplate, 0)
	query := repo.database.Where("is_active = ?", true).Order("created_at DESC")
	if area != "" {
		query = query.Where("area = ?", area)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (repo *TemplateRepository) FindActiveByID(templateID uint) (models.ProjectTemplate, error) {
	var template models.ProjectTemplate
	if err := repo.database.
		Where("id = ? AND is_active = ?", templateID, true).
		First(&template).Error; err != nil {
		return models.ProjectTemplate{}, err
	}
	return template, nil
}

func (repo *TemplateRepository) Create(template *models.ProjectTemplate) error {
	return repo.database.Create(template).Error
}

// Save rewrites the whole row. Updates to the default task list go through
// here so the JSON serializer stays in charge of the encoded column.
func (repo *TemplateRepository) Save(template *models.ProjectTemplate) error {
	return repo.database.Save(template).Error
}

// SoftDelete deactivates the template while keeping the row so projects
// created from it retain a valid reference.
func (repo *TemplateRepository) SoftDelete(templateID uint) error {
	return repo.database.Model(&models.ProjectTemplate{}).
		Where("id = ?", templateID).
		Update("is_active", false).Error
}

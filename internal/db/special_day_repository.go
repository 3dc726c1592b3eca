package db

import (
	"github.com/terraincognita07/daybloom/internal/models"
	"gorm.io/gorm"
)

type SpecialDayRepository struct {
	database *gorm.DB
}

func NewSpecialDayRepository(database *gorm.DB) *SpecialDayRepository {
	return &SpecialDayRepository{database: database}
}

func (repo *SpecialDayRepository) List() ([]models.SpecialDay, error) {
	days := make([]models.SpecialDay, 0)
	if err := repo.database.Order("created_at ASC, id ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *SpecialDayRepository) Find(id string) (models.SpecialDay, bool, error) {
	day := models.SpecialDay{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&day)
	if result.Error != nil {
		return models.SpecialDay{}, false, result.Error
	}
	return day, result.RowsAffected > 0, nil
}

func (repo *SpecialDayRepository) Create(day *models.SpecialDay) error {
	return repo.database.Create(day).Error
}

func (repo *SpecialDayRepository) Save(day *models.SpecialDay) error {
	return repo.database.Save(day).Error
}

func (repo *SpecialDayRepository) Delete(id string) (bool, error) {
	result := repo.database.Where("id = ?", id).Delete(&models.SpecialDay{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

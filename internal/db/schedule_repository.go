package db

import (
	"github.com/terraincognita07/daybloom/internal/models"
	"gorm.io/gorm"
)

const scheduleSettingsRowID = 1

type ScheduleRepository struct {
	database *gorm.DB
}

func NewScheduleRepository(database *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{database: database}
}

func (repo *ScheduleRepository) LoadSettings() (models.ScheduleSettings, bool, error) {
	settings := models.ScheduleSettings{}
	result := repo.database.Where("id = ?", scheduleSettingsRowID).Limit(1).Find(&settings)
	if result.Error != nil {
		return models.ScheduleSettings{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ScheduleSettings{}, false, nil
	}
	return settings, true, nil
}

func (repo *ScheduleRepository) SaveSettings(settings *models.ScheduleSettings) error {
	settings.ID = scheduleSettingsRowID
	return repo.database.Save(settings).Error
}

func (repo *ScheduleRepository) ListCourses() ([]models.Course, error) {
	courses := make([]models.Course, 0)
	if err := repo.database.Order("day_of_week ASC, start_section ASC, created_at ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (repo *ScheduleRepository) FindCourse(id string) (models.Course, bool, error) {
	course := models.Course{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&course)
	if result.Error != nil {
		return models.Course{}, false, result.Error
	}
	return course, result.RowsAffected > 0, nil
}

func (repo *ScheduleRepository) CreateCourse(course *models.Course) error {
	return repo.database.Create(course).Error
}

func (repo *ScheduleRepository) SaveCourse(course *models.Course) error {
	return repo.database.Save(course).Error
}

func (repo *ScheduleRepository) DeleteCourse(id string) (bool, error) {
	result := repo.database.Where("id = ?", id).Delete(&models.Course{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

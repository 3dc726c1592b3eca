package db

import (
	"time"

	"github.com/terraincognita07/daybloom/internal/models"
	"gorm.io/gorm"
)

const periodTrackerRowID = 1

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) LoadTracker() (models.PeriodTracker, bool, error) {
	tracker := models.PeriodTracker{}
	result := repo.database.Where("id = ?", periodTrackerRowID).Limit(1).Find(&tracker)
	if result.Error != nil {
		return models.PeriodTracker{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PeriodTracker{}, false, nil
	}
	return tracker, true, nil
}

// SaveTracker writes every column, so a nil PreviousPeriodStart clears the
// stored undo slot.
func (repo *PeriodRepository) SaveTracker(tracker *models.PeriodTracker) error {
	tracker.ID = periodTrackerRowID
	return repo.database.Save(tracker).Error
}

func (repo *PeriodRepository) ListLogs() ([]models.PeriodLog, error) {
	logs := make([]models.PeriodLog, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *PeriodRepository) FindLogByDayRange(dayStart time.Time, dayEnd time.Time) (models.PeriodLog, bool, error) {
	entry := models.PeriodLog{}
	result := repo.database.
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.PeriodLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PeriodLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *PeriodRepository) CreateLog(entry *models.PeriodLog) error {
	return repo.database.Create(entry).Error
}

func (repo *PeriodRepository) SaveLog(entry *models.PeriodLog) error {
	return repo.database.Save(entry).Error
}

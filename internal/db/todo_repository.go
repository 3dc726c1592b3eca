package db

import (
	"github.com/terraincognita07/daybloom/internal/models"
	"gorm.io/gorm"
)

type TodoRepository struct {
	database *gorm.DB
}

func NewTodoRepository(database *gorm.DB) *TodoRepository {
	return &TodoRepository{database: database}
}

// List returns todos newest first, matching the order new items are shown in.
func (repo *TodoRepository) List() ([]models.TodoItem, error) {
	todos := make([]models.TodoItem, 0)
	if err := repo.database.Order("created_at DESC, id ASC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (repo *TodoRepository) Find(id string) (models.TodoItem, bool, error) {
	todo := models.TodoItem{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&todo)
	if result.Error != nil {
		return models.TodoItem{}, false, result.Error
	}
	return todo, result.RowsAffected > 0, nil
}

func (repo *TodoRepository) Create(todo *models.TodoItem) error {
	return repo.database.Create(todo).Error
}

func (repo *TodoRepository) Save(todo *models.TodoItem) error {
	return repo.database.Save(todo).Error
}

func (repo *TodoRepository) Delete(id string) (bool, error) {
	result := repo.database.Where("id = ?", id).Delete(&models.TodoItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type NoteRepository struct {
	database *gorm.DB
}

func NewNoteRepository(database *gorm.DB) *NoteRepository {
	return &NoteRepository{database: database}
}

func (repo *NoteRepository) List() ([]models.NoteItem, error) {
	notes := make([]models.NoteItem, 0)
	if err := repo.database.Order("date DESC, created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (repo *NoteRepository) Find(id string) (models.NoteItem, bool, error) {
	note := models.NoteItem{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&note)
	if result.Error != nil {
		return models.NoteItem{}, false, result.Error
	}
	return note, result.RowsAffected > 0, nil
}

func (repo *NoteRepository) Create(note *models.NoteItem) error {
	return repo.database.Create(note).Error
}

func (repo *NoteRepository) Save(note *models.NoteItem) error {
	return repo.database.Save(note).Error
}

func (repo *NoteRepository) Delete(id string) (bool, error) {
	result := repo.database.Where("id = ?", id).Delete(&models.NoteItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

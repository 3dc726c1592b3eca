package db

import "gorm.io/gorm"

type Repositories struct {
	Schedule    *ScheduleRepository
	Period      *PeriodRepository
	Todos       *TodoRepository
	Notes       *NoteRepository
	SpecialDays *SpecialDayRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Schedule:    NewScheduleRepository(database),
		Period:      NewPeriodRepository(database),
		Todos:       NewTodoRepository(database),
		Notes:       NewNoteRepository(database),
		SpecialDays: NewSpecialDayRepository(database),
	}
}

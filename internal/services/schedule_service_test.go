package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daybloom/internal/models"
)

type memoryScheduleStore struct {
	settings *models.ScheduleSettings
	courses  []models.Course
}

func (store *memoryScheduleStore) LoadSettings() (models.ScheduleSettings, bool, error) {
	if store.settings == nil {
		return models.ScheduleSettings{}, false, nil
	}
	settings := *store.settings
	settings.SpecificBreaks = settings.SpecificBreaks.Clone()
	return settings, true, nil
}

func (store *memoryScheduleStore) SaveSettings(settings *models.ScheduleSettings) error {
	copied := *settings
	copied.SpecificBreaks = settings.SpecificBreaks.Clone()
	store.settings = &copied
	return nil
}

func (store *memoryScheduleStore) ListCourses() ([]models.Course, error) {
	return append([]models.Course(nil), store.courses...), nil
}

func (store *memoryScheduleStore) FindCourse(id string) (models.Course, bool, error) {
	for _, course := range store.courses {
		if course.ID == id {
			return course, true, nil
		}
	}
	return models.Course{}, false, nil
}

func (store *memoryScheduleStore) CreateCourse(course *models.Course) error {
	store.courses = append(store.courses, *course)
	return nil
}

func (store *memoryScheduleStore) SaveCourse(course *models.Course) error {
	for index := range store.courses {
		if store.courses[index].ID == course.ID {
			store.courses[index] = *course
			return nil
		}
	}
	return store.CreateCourse(course)
}

func (store *memoryScheduleStore) DeleteCourse(id string) (bool, error) {
	for index := range store.courses {
		if store.courses[index].ID == id {
			store.courses = append(store.courses[:index], store.courses[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestScheduleService() (*ScheduleService, *memoryScheduleStore) {
	store := &memoryScheduleStore{}
	service := NewScheduleService(store, time.UTC)
	sequence := 0
	service.newID = func() string {
		sequence++
		return fmt.Sprintf("course-%d", sequence)
	}
	service.courseColor = func() string { return models.CourseColors[1] }
	return service, store
}

func TestScheduleSettingsSeedDefaults(t *testing.T) {
	service, store := newTestScheduleService()

	settings, err := service.Settings()
	require.NoError(t, err)

	assert.Equal(t, models.DefaultScheduleSettings(), settings)
	require.NotNil(t, store.settings)
}

func TestUpdateSettingsKeepsBreakOverrides(t *testing.T) {
	service, _ := newTestScheduleService()

	settings, err := service.UpdateSettings(ScheduleSettingsInput{StartHour: 7, StartMinute: 30, ClassDuration: 40, BreakDuration: 5, TotalSections: 10})
	require.NoError(t, err)

	assert.Equal(t, 7, settings.StartHour)
	assert.Equal(t, 40, settings.ClassDuration)
	assert.Equal(t, models.SpecificBreaks{2: 20, 4: 120}, settings.SpecificBreaks)

	_, err = service.UpdateSettings(ScheduleSettingsInput{StartHour: 24, ClassDuration: 40, TotalSections: 10})
	assert.ErrorIs(t, err, ErrInvalidScheduleSettings)

	_, err = service.UpdateSettings(ScheduleSettingsInput{StartHour: 8, ClassDuration: 0, TotalSections: 10})
	assert.ErrorIs(t, err, ErrInvalidScheduleSettings)
}

func TestSetAndRemoveBreak(t *testing.T) {
	service, store := newTestScheduleService()

	settings, err := service.SetBreak(6, 0)
	require.NoError(t, err)
	minutes, ok := settings.SpecificBreaks.Lookup(6)
	require.True(t, ok, "a zero-minute override must be stored")
	assert.Zero(t, minutes)
	assert.Equal(t, "15:20", ResolveSectionRange(7, 1, settings).Start.String())

	_, err = service.SetBreak(12, 10)
	assert.ErrorIs(t, err, ErrBreakSectionOutOfRange)
	_, err = service.SetBreak(3, -1)
	assert.ErrorIs(t, err, ErrInvalidBreakDuration)

	settings, err = service.RemoveBreak(6)
	require.NoError(t, err)
	_, ok = settings.SpecificBreaks.Lookup(6)
	assert.False(t, ok)
	_, ok = store.settings.SpecificBreaks.Lookup(6)
	assert.False(t, ok)

	_, err = service.RemoveBreak(6)
	assert.ErrorIs(t, err, ErrBreakNotFound)
}

func TestCourseLifecycle(t *testing.T) {
	service, store := newTestScheduleService()

	course, err := service.CreateCourse(CourseInput{Name: " 高等数学 ", DayOfWeek: 1, StartSection: 3, SectionCount: 2, Room: "A101"})
	require.NoError(t, err)
	assert.Equal(t, "course-1", course.ID)
	assert.Equal(t, "高等数学", course.Name)
	assert.Equal(t, models.CourseColors[1], course.Color)

	updated, err := service.UpdateCourse(course.ID, CourseInput{Name: "线性代数", DayOfWeek: 2, StartSection: 1, SectionCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "线性代数", updated.Name)
	assert.Equal(t, course.Color, updated.Color, "an empty color keeps the current one")
	assert.Equal(t, 2, store.courses[0].DayOfWeek)

	require.NoError(t, service.DeleteCourse(course.ID))
	assert.ErrorIs(t, service.DeleteCourse(course.ID), ErrCourseNotFound)
	_, err = service.UpdateCourse(course.ID, CourseInput{Name: "x", DayOfWeek: 1, StartSection: 1, SectionCount: 1})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreateCourseValidation(t *testing.T) {
	service, _ := newTestScheduleService()

	_, err := service.CreateCourse(CourseInput{Name: " ", DayOfWeek: 1, StartSection: 1, SectionCount: 1})
	assert.ErrorIs(t, err, ErrCourseNameRequired)

	_, err = service.CreateCourse(CourseInput{Name: "x", DayOfWeek: 8, StartSection: 1, SectionCount: 1})
	assert.ErrorIs(t, err, ErrInvalidCourseDay)

	_, err = service.CreateCourse(CourseInput{Name: "x", DayOfWeek: 1, StartSection: 12, SectionCount: 2})
	assert.ErrorIs(t, err, ErrInvalidCourseSections)

	_, err = service.CreateCourse(CourseInput{Name: "x", DayOfWeek: 1, StartSection: 0, SectionCount: 1})
	assert.ErrorIs(t, err, ErrInvalidCourseSections)
}

func TestBuildWeekGrid(t *testing.T) {
	settings := models.DefaultScheduleSettings()
	courses := []models.Course{
		{ID: "b", Name: "英语", DayOfWeek: 3, StartSection: 5, SectionCount: 2},
		{ID: "a", Name: "数学", DayOfWeek: 1, StartSection: 3, SectionCount: 2},
	}
	wednesday := time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC)

	grid := BuildWeekGrid(wednesday, settings, courses)

	require.Len(t, grid.Days, 7)
	assert.Equal(t, WeekDay{DayOfWeek: 1, Date: "2024-05-06", Label: "5/6"}, grid.Days[0])
	assert.True(t, grid.Days[2].IsToday)
	assert.Equal(t, "5/12", grid.Days[6].Label)

	require.Len(t, grid.Sections, settings.TotalSections)
	assert.Equal(t, "08:00", grid.Sections[0].Range.Start.String())
	assert.Equal(t, "08:45", grid.Sections[0].Range.End.String())
	assert.Equal(t, "13:40", grid.Sections[4].Range.Start.String())

	require.Len(t, grid.Courses, 2)
	assert.Equal(t, "a", grid.Courses[0].Course.ID)
	assert.Equal(t, "10:00", grid.Courses[0].Range.Start.String())
	assert.Equal(t, "11:40", grid.Courses[0].Range.End.String())
	assert.Equal(t, "13:40", grid.Courses[1].Range.Start.String())
	assert.Equal(t, "15:20", grid.Courses[1].Range.End.String())
}

package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/daybloom/internal/models"
)

var (
	ErrScheduleLoadFailed      = errors.New("load schedule failed")
	ErrScheduleSaveFailed      = errors.New("save schedule failed")
	ErrInvalidScheduleSettings = errors.New("invalid schedule settings")
	ErrBreakSectionOutOfRange  = errors.New("break section out of range")
	ErrInvalidBreakDuration    = errors.New("invalid break duration")
	ErrBreakNotFound           = errors.New("break override not found")
	ErrCourseNotFound          = errors.New("course not found")
	ErrCourseNameRequired      = errors.New("course name is required")
	ErrInvalidCourseDay        = errors.New("invalid course day of week")
	ErrInvalidCourseSections   = errors.New("invalid course sections")
	ErrCourseDeleteFailed      = errors.New("delete course failed")
)

type ScheduleStore interface {
	LoadSettings() (models.ScheduleSettings, bool, error)
	SaveSettings(settings *models.ScheduleSettings) error
	ListCourses() ([]models.Course, error)
	FindCourse(id string) (models.Course, bool, error)
	CreateCourse(course *models.Course) error
	SaveCourse(course *models.Course) error
	DeleteCourse(id string) (bool, error)
}

type ScheduleSettingsInput struct {
	StartHour     int
	StartMinute   int
	ClassDuration int
	BreakDuration int
	TotalSections int
}

type CourseInput struct {
	Name         string
	DayOfWeek    int
	StartSection int
	SectionCount int
	Room         string
	Color        string
}

type WeekDay struct {
	DayOfWeek int    `json:"day_of_week"`
	Date      string `json:"date"`
	Label     string `json:"label"`
	IsToday   bool   `json:"is_today"`
}

type SectionRow struct {
	Section int          `json:"section"`
	Range   SectionRange `json:"range"`
}

type CourseBlock struct {
	Course models.Course `json:"course"`
	Range  SectionRange  `json:"range"`
}

type WeekGrid struct {
	Days     []WeekDay               `json:"days"`
	Sections []SectionRow            `json:"sections"`
	Courses  []CourseBlock           `json:"courses"`
	Settings models.ScheduleSettings `json:"settings"`
}

type ScheduleService struct {
	store       ScheduleStore
	location    *time.Location
	newID       func() string
	courseColor func() string
}

func NewScheduleService(store ScheduleStore, location *time.Location) *ScheduleService {
	if location == nil {
		location = time.UTC
	}
	return &ScheduleService{
		store:       store,
		location:    location,
		newID:       uuid.NewString,
		courseColor: randomCourseColor,
	}
}

func randomCourseColor() string {
	return models.CourseColors[rand.IntN(len(models.CourseColors))]
}

// Settings returns the stored settings, seeding the defaults on first use.
func (service *ScheduleService) Settings() (models.ScheduleSettings, error) {
	settings, found, err := service.store.LoadSettings()
	if err != nil {
		return models.ScheduleSettings{}, ErrScheduleLoadFailed
	}
	if found {
		return settings, nil
	}

	settings = models.DefaultScheduleSettings()
	if err := service.store.SaveSettings(&settings); err != nil {
		return models.ScheduleSettings{}, ErrScheduleSaveFailed
	}
	return settings, nil
}

func ValidateScheduleSettings(settings models.ScheduleSettings) error {
	switch {
	case settings.StartHour < 0 || settings.StartHour > 23:
		return fmt.Errorf("%w: start hour %d", ErrInvalidScheduleSettings, settings.StartHour)
	case settings.StartMinute < 0 || settings.StartMinute > 59:
		return fmt.Errorf("%w: start minute %d", ErrInvalidScheduleSettings, settings.StartMinute)
	case settings.ClassDuration <= 0:
		return fmt.Errorf("%w: class duration %d", ErrInvalidScheduleSettings, settings.ClassDuration)
	case settings.BreakDuration < 0:
		return fmt.Errorf("%w: break duration %d", ErrInvalidScheduleSettings, settings.BreakDuration)
	case settings.TotalSections <= 0:
		return fmt.Errorf("%w: total sections %d", ErrInvalidScheduleSettings, settings.TotalSections)
	}
	for section, minutes := range settings.SpecificBreaks {
		if section < 1 || minutes < 0 {
			return fmt.Errorf("%w: break after section %d is %d minutes", ErrInvalidScheduleSettings, section, minutes)
		}
	}
	return nil
}

// UpdateSettings replaces the timing fields; configured break overrides are
// kept.
func (service *ScheduleService) UpdateSettings(input ScheduleSettingsInput) (models.ScheduleSettings, error) {
	settings, err := service.Settings()
	if err != nil {
		return models.ScheduleSettings{}, err
	}

	settings.StartHour = input.StartHour
	settings.StartMinute = input.StartMinute
	settings.ClassDuration = input.ClassDuration
	settings.BreakDuration = input.BreakDuration
	settings.TotalSections = input.TotalSections

	return service.ReplaceSettings(settings)
}

// ReplaceSettings stores settings as a whole, break overrides included.
func (service *ScheduleService) ReplaceSettings(settings models.ScheduleSettings) (models.ScheduleSettings, error) {
	if err := ValidateScheduleSettings(settings); err != nil {
		return models.ScheduleSettings{}, err
	}
	settings.SpecificBreaks = settings.SpecificBreaks.Clone()
	if err := service.store.SaveSettings(&settings); err != nil {
		return models.ScheduleSettings{}, ErrScheduleSaveFailed
	}
	return settings, nil
}

// SetBreak overrides the break after section. A zero-minute override is kept
// as is and differs from removing the override.
func (service *ScheduleService) SetBreak(section int, minutes int) (models.ScheduleSettings, error) {
	settings, err := service.Settings()
	if err != nil {
		return models.ScheduleSettings{}, err
	}
	if section < 1 || section >= settings.TotalSections {
		return models.ScheduleSettings{}, ErrBreakSectionOutOfRange
	}
	if minutes < 0 {
		return models.ScheduleSettings{}, ErrInvalidBreakDuration
	}

	breaks := settings.SpecificBreaks.Clone()
	if breaks == nil {
		breaks = models.SpecificBreaks{}
	}
	breaks[section] = minutes
	settings.SpecificBreaks = breaks

	if err := service.store.SaveSettings(&settings); err != nil {
		return models.ScheduleSettings{}, ErrScheduleSaveFailed
	}
	return settings, nil
}

func (service *ScheduleService) RemoveBreak(section int) (models.ScheduleSettings, error) {
	settings, err := service.Settings()
	if err != nil {
		return models.ScheduleSettings{}, err
	}
	if _, ok := settings.SpecificBreaks.Lookup(section); !ok {
		return models.ScheduleSettings{}, ErrBreakNotFound
	}

	breaks := settings.SpecificBreaks.Clone()
	delete(breaks, section)
	settings.SpecificBreaks = breaks

	if err := service.store.SaveSettings(&settings); err != nil {
		return models.ScheduleSettings{}, ErrScheduleSaveFailed
	}
	return settings, nil
}

func (service *ScheduleService) Courses() ([]models.Course, error) {
	courses, err := service.store.ListCourses()
	if err != nil {
		return nil, ErrScheduleLoadFailed
	}
	return courses, nil
}

func (service *ScheduleService) normalizeCourseInput(input CourseInput) (CourseInput, error) {
	normalized := CourseInput{
		Name:         strings.TrimSpace(input.Name),
		DayOfWeek:    input.DayOfWeek,
		StartSection: input.StartSection,
		SectionCount: input.SectionCount,
		Room:         strings.TrimSpace(input.Room),
		Color:        strings.TrimSpace(input.Color),
	}
	if normalized.Name == "" {
		return CourseInput{}, ErrCourseNameRequired
	}
	if normalized.DayOfWeek < 1 || normalized.DayOfWeek > 7 {
		return CourseInput{}, ErrInvalidCourseDay
	}

	settings, err := service.Settings()
	if err != nil {
		return CourseInput{}, err
	}
	lastSection := normalized.StartSection + normalized.SectionCount - 1
	if normalized.StartSection < 1 || normalized.SectionCount < 1 || lastSection > settings.TotalSections {
		return CourseInput{}, ErrInvalidCourseSections
	}

	if normalized.Color == "" {
		normalized.Color = service.courseColor()
	}
	return normalized, nil
}

func (service *ScheduleService) CreateCourse(input CourseInput) (models.Course, error) {
	normalized, err := service.normalizeCourseInput(input)
	if err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		ID:           service.newID(),
		Name:         normalized.Name,
		DayOfWeek:    normalized.DayOfWeek,
		StartSection: normalized.StartSection,
		SectionCount: normalized.SectionCount,
		Room:         normalized.Room,
		Color:        normalized.Color,
	}
	if err := service.store.CreateCourse(&course); err != nil {
		return models.Course{}, ErrScheduleSaveFailed
	}
	return course, nil
}

func (service *ScheduleService) UpdateCourse(id string, input CourseInput) (models.Course, error) {
	course, found, err := service.store.FindCourse(strings.TrimSpace(id))
	if err != nil {
		return models.Course{}, ErrScheduleLoadFailed
	}
	if !found {
		return models.Course{}, ErrCourseNotFound
	}

	if strings.TrimSpace(input.Color) == "" {
		input.Color = course.Color
	}
	normalized, err := service.normalizeCourseInput(input)
	if err != nil {
		return models.Course{}, err
	}

	course.Name = normalized.Name
	course.DayOfWeek = normalized.DayOfWeek
	course.StartSection = normalized.StartSection
	course.SectionCount = normalized.SectionCount
	course.Room = normalized.Room
	course.Color = normalized.Color
	if err := service.store.SaveCourse(&course); err != nil {
		return models.Course{}, ErrScheduleSaveFailed
	}
	return course, nil
}

func (service *ScheduleService) DeleteCourse(id string) error {
	deleted, err := service.store.DeleteCourse(strings.TrimSpace(id))
	if err != nil {
		return ErrCourseDeleteFailed
	}
	if !deleted {
		return ErrCourseNotFound
	}
	return nil
}

func (service *ScheduleService) Week(now time.Time) (WeekGrid, error) {
	settings, err := service.Settings()
	if err != nil {
		return WeekGrid{}, err
	}
	courses, err := service.Courses()
	if err != nil {
		return WeekGrid{}, err
	}
	return BuildWeekGrid(DateAtLocation(now, service.location), settings, courses), nil
}

// BuildWeekGrid lays out the Monday-first week containing today.
func BuildWeekGrid(today time.Time, settings models.ScheduleSettings, courses []models.Course) WeekGrid {
	monday := WeekStart(today)
	days := make([]WeekDay, 0, 7)
	for offset := 0; offset < 7; offset++ {
		date := monday.AddDate(0, 0, offset)
		days = append(days, WeekDay{
			DayOfWeek: offset + 1,
			Date:      FormatDay(date),
			Label:     fmt.Sprintf("%d/%d", int(date.Month()), date.Day()),
			IsToday:   sameDay(date, today),
		})
	}

	sections := make([]SectionRow, 0, settings.TotalSections)
	for section := 1; section <= settings.TotalSections; section++ {
		sections = append(sections, SectionRow{
			Section: section,
			Range:   ResolveSectionRange(section, 1, settings),
		})
	}

	return WeekGrid{
		Days:     days,
		Sections: sections,
		Courses:  CourseBlocks(courses, settings),
		Settings: settings,
	}
}

// CourseBlocks resolves each course's time span, ordered by weekday then
// start section.
func CourseBlocks(courses []models.Course, settings models.ScheduleSettings) []CourseBlock {
	sorted := make([]models.Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DayOfWeek != sorted[j].DayOfWeek {
			return sorted[i].DayOfWeek < sorted[j].DayOfWeek
		}
		return sorted[i].StartSection < sorted[j].StartSection
	})

	blocks := make([]CourseBlock, 0, len(sorted))
	for _, course := range sorted {
		blocks = append(blocks, CourseBlock{
			Course: course,
			Range:  ResolveSectionRange(course.StartSection, course.SectionCount, settings),
		})
	}
	return blocks
}

func CoursesOnWeekday(courses []models.Course, dayOfWeek int) []models.Course {
	matched := make([]models.Course, 0)
	for _, course := range courses {
		if course.DayOfWeek == dayOfWeek {
			matched = append(matched, course)
		}
	}
	return matched
}

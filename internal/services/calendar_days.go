package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/daybloom/internal/models"
)

type CalendarSources struct {
	Todos       []models.TodoItem
	Courses     []models.Course
	SpecialDays []models.SpecialDay
	Settings    models.ScheduleSettings
	Period      *models.PeriodData
}

type CalendarDayState struct {
	Date       time.Time `json:"-"`
	DateString string    `json:"date"`
	Day        int       `json:"day"`
	IsToday    bool      `json:"is_today"`
	IsSelected bool      `json:"is_selected"`
	HasTodo    bool      `json:"has_todo"`
	HasSpecial bool      `json:"has_special"`
	HasCourse  bool      `json:"has_course"`
	Phase      Phase     `json:"phase,omitempty"`
}

type CalendarMonth struct {
	Year          int                `json:"year"`
	Month         int                `json:"month"`
	Title         string             `json:"title"`
	LeadingBlanks int                `json:"leading_blanks"`
	Days          []CalendarDayState `json:"days"`
}

type DayAgenda struct {
	Date        string              `json:"date"`
	Title       string              `json:"title"`
	DayOfWeek   int                 `json:"day_of_week"`
	Todos       []models.TodoItem   `json:"todos"`
	Courses     []CourseBlock       `json:"courses"`
	SpecialDays []models.SpecialDay `json:"special_days"`
	Phase       *CyclePhase         `json:"phase,omitempty"`
}

var weekdayNames = [...]string{"一", "二", "三", "四", "五", "六", "日"}

// BuildCalendarMonth builds the Monday-first month view. Days with an open
// todo, a special day or a course on that weekday are flagged.
func BuildCalendarMonth(year int, month time.Month, selected time.Time, today time.Time, sources CalendarSources, location *time.Location) CalendarMonth {
	days := DaysInMonth(year, month, location)

	openTodoDates := make(map[string]bool)
	for _, todo := range sources.Todos {
		if !todo.Completed {
			openTodoDates[todo.Date] = true
		}
	}
	specialDates := make(map[string]bool)
	for _, special := range sources.SpecialDays {
		specialDates[special.Date] = true
	}
	courseWeekdays := make(map[int]bool)
	for _, course := range sources.Courses {
		courseWeekdays[course.DayOfWeek] = true
	}

	states := make([]CalendarDayState, 0, len(days))
	for _, day := range days {
		key := FormatDay(day)
		state := CalendarDayState{
			Date:       day,
			DateString: key,
			Day:        day.Day(),
			IsToday:    sameDay(day, today),
			IsSelected: sameDay(day, selected),
			HasTodo:    openTodoDates[key],
			HasSpecial: specialDates[key],
			HasCourse:  courseWeekdays[ISOWeekday(day)],
		}
		if sources.Period != nil {
			state.Phase = ResolveCyclePhase(day, *sources.Period).Phase
		}
		states = append(states, state)
	}

	return CalendarMonth{
		Year:          year,
		Month:         int(month),
		Title:         fmt.Sprintf("%d年 %d月", year, int(month)),
		LeadingBlanks: ISOWeekday(days[0]) - 1,
		Days:          states,
	}
}

// BuildDayAgenda collects the todos, courses and special days of date.
// Courses come from the weekday and are ordered by start section.
func BuildDayAgenda(date time.Time, sources CalendarSources) DayAgenda {
	key := FormatDay(date)
	weekday := ISOWeekday(date)

	todos := filterTodos(sources.Todos, func(todo models.TodoItem) bool { return todo.Date == key })

	courses := CoursesOnWeekday(sources.Courses, weekday)
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].StartSection < courses[j].StartSection
	})
	blocks := make([]CourseBlock, 0, len(courses))
	for _, course := range courses {
		blocks = append(blocks, CourseBlock{
			Course: course,
			Range:  ResolveSectionRange(course.StartSection, course.SectionCount, sources.Settings),
		})
	}

	specials := make([]models.SpecialDay, 0)
	for _, special := range sources.SpecialDays {
		if special.Date == key {
			specials = append(specials, special)
		}
	}

	agenda := DayAgenda{
		Date:        key,
		Title:       fmt.Sprintf("%d月%d日 星期%s", int(date.Month()), date.Day(), weekdayNames[weekday-1]),
		DayOfWeek:   weekday,
		Todos:       todos,
		Courses:     blocks,
		SpecialDays: specials,
	}
	if sources.Period != nil {
		phase := ResolveCyclePhase(date, *sources.Period)
		agenda.Phase = &phase
	}
	return agenda
}

type CalendarService struct {
	todos       *TodoService
	schedule    *ScheduleService
	specialDays *SpecialDayService
	period      *PeriodService
	location    *time.Location
}

func NewCalendarService(todos *TodoService, schedule *ScheduleService, specialDays *SpecialDayService, period *PeriodService, location *time.Location) *CalendarService {
	if location == nil {
		location = time.UTC
	}
	return &CalendarService{
		todos:       todos,
		schedule:    schedule,
		specialDays: specialDays,
		period:      period,
		location:    location,
	}
}

func (service *CalendarService) sources(now time.Time) (CalendarSources, error) {
	todos, err := service.todos.List()
	if err != nil {
		return CalendarSources{}, err
	}
	settings, err := service.schedule.Settings()
	if err != nil {
		return CalendarSources{}, err
	}
	courses, err := service.schedule.Courses()
	if err != nil {
		return CalendarSources{}, err
	}
	specials, err := service.specialDays.List()
	if err != nil {
		return CalendarSources{}, err
	}

	sources := CalendarSources{
		Todos:       todos,
		Courses:     courses,
		SpecialDays: specials,
		Settings:    settings,
	}
	if service.period != nil {
		data, err := service.period.Data(now)
		if err != nil {
			return CalendarSources{}, err
		}
		sources.Period = &data
	}
	return sources, nil
}

func (service *CalendarService) Month(year int, month time.Month, selected time.Time, now time.Time) (CalendarMonth, error) {
	sources, err := service.sources(now)
	if err != nil {
		return CalendarMonth{}, err
	}
	return BuildCalendarMonth(
		year,
		month,
		DateAtLocation(selected, service.location),
		DateAtLocation(now, service.location),
		sources,
		service.location,
	), nil
}

func (service *CalendarService) Day(date time.Time, now time.Time) (DayAgenda, error) {
	sources, err := service.sources(now)
	if err != nil {
		return DayAgenda{}, err
	}
	return BuildDayAgenda(DateAtLocation(date, service.location), sources), nil
}

package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/daybloom/internal/models"
	"github.com/xuri/excelize/v2"
)

const timetableSheetName = "课程表"

var ErrExportFailed = errors.New("export failed")

var timetableWeekdayHeaders = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

type ExportScheduleReader interface {
	Settings() (models.ScheduleSettings, error)
	Courses() ([]models.Course, error)
}

type ExportTodoReader interface {
	List() ([]models.TodoItem, error)
	ListNotes() ([]models.NoteItem, error)
}

type ExportSpecialDayReader interface {
	List() ([]models.SpecialDay, error)
}

type ExportPeriodReader interface {
	Data(now time.Time) (models.PeriodData, error)
}

type ExportService struct {
	schedule    ExportScheduleReader
	todos       ExportTodoReader
	specialDays ExportSpecialDayReader
	period      ExportPeriodReader
}

// ExportSnapshot is the whole organizer state as served by the JSON export.
type ExportSnapshot struct {
	ExportedAt  string                  `json:"exported_at"`
	Settings    models.ScheduleSettings `json:"settings"`
	Courses     []models.Course         `json:"courses"`
	Todos       []models.TodoItem       `json:"todos"`
	Notes       []models.NoteItem       `json:"notes"`
	SpecialDays []models.SpecialDay     `json:"special_days"`
	Period      models.PeriodData       `json:"period"`
}

func NewExportService(schedule ExportScheduleReader, todos ExportTodoReader, specialDays ExportSpecialDayReader, period ExportPeriodReader) *ExportService {
	return &ExportService{
		schedule:    schedule,
		todos:       todos,
		specialDays: specialDays,
		period:      period,
	}
}

func (service *ExportService) Snapshot(now time.Time) (ExportSnapshot, error) {
	settings, err := service.schedule.Settings()
	if err != nil {
		return ExportSnapshot{}, err
	}
	courses, err := service.schedule.Courses()
	if err != nil {
		return ExportSnapshot{}, err
	}
	todos, err := service.todos.List()
	if err != nil {
		return ExportSnapshot{}, err
	}
	notes, err := service.todos.ListNotes()
	if err != nil {
		return ExportSnapshot{}, err
	}
	specialDays, err := service.specialDays.List()
	if err != nil {
		return ExportSnapshot{}, err
	}
	period, err := service.period.Data(now)
	if err != nil {
		return ExportSnapshot{}, err
	}

	return ExportSnapshot{
		ExportedAt:  now.UTC().Format(time.RFC3339),
		Settings:    settings,
		Courses:     courses,
		Todos:       todos,
		Notes:       notes,
		SpecialDays: specialDays,
		Period:      period,
	}, nil
}

// TimetableWorkbook renders the weekly timetable as an xlsx document.
func (service *ExportService) TimetableWorkbook() ([]byte, error) {
	settings, err := service.schedule.Settings()
	if err != nil {
		return nil, err
	}
	courses, err := service.schedule.Courses()
	if err != nil {
		return nil, err
	}
	return BuildTimetableWorkbook(settings, courses)
}

// TimetableCells returns the grid behind the workbook: one row per section,
// the first column holding "N (HH:MM-HH:MM)" and the next seven the name of
// the course covering that weekday and section.
func TimetableCells(settings models.ScheduleSettings, courses []models.Course) [][]string {
	rows := make([][]string, settings.TotalSections)
	for index := range rows {
		section := index + 1
		sectionRange := ResolveSectionRange(section, 1, settings)
		rows[index] = make([]string, 1+len(timetableWeekdayHeaders))
		rows[index][0] = fmt.Sprintf("%d (%s-%s)", section, sectionRange.Start, sectionRange.End)
	}

	for _, course := range courses {
		if course.DayOfWeek < 1 || course.DayOfWeek > len(timetableWeekdayHeaders) {
			continue
		}
		for offset := 0; offset < course.SectionCount; offset++ {
			section := course.StartSection + offset
			if section < 1 || section > settings.TotalSections {
				continue
			}
			rows[section-1][course.DayOfWeek] = course.Name
		}
	}
	return rows
}

func BuildTimetableWorkbook(settings models.ScheduleSettings, courses []models.Course) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timetableSheetName); err != nil {
		return nil, fmt.Errorf("%w: rename sheet: %v", ErrExportFailed, err)
	}

	headers := append([]string{"节次"}, timetableWeekdayHeaders...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(timetableSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("%w: write header: %v", ErrExportFailed, err)
		}
	}

	for rowIndex, row := range TimetableCells(settings, courses) {
		for colIndex, value := range row {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err := f.SetCellValue(timetableSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("%w: write cell %s: %v", ErrExportFailed, cell, err)
			}
		}
	}
	if err := f.SetColWidth(timetableSheetName, "A", "A", 18); err != nil {
		return nil, fmt.Errorf("%w: set column width: %v", ErrExportFailed, err)
	}

	var buffer bytes.Buffer
	if err := f.Write(&buffer); err != nil {
		return nil, fmt.Errorf("%w: write workbook: %v", ErrExportFailed, err)
	}
	return buffer.Bytes(), nil
}

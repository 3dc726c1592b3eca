package models

import "time"

const (
	DefaultStartHour     = 8
	DefaultStartMinute   = 0
	DefaultClassDuration = 45
	DefaultBreakDuration = 10
	DefaultTotalSections = 12
)

// SpecificBreaks maps a 1-based section index to the break, in minutes, that
// follows that section instead of the default break. Keys are sparse.
type SpecificBreaks map[int]int

// Lookup reports the override for section and whether one is configured.
// A configured zero-minute break is distinct from a missing key.
func (breaks SpecificBreaks) Lookup(section int) (int, bool) {
	if breaks == nil {
		return 0, false
	}
	minutes, ok := breaks[section]
	return minutes, ok
}

// Clone returns an independent copy so callers can edit settings by value.
func (breaks SpecificBreaks) Clone() SpecificBreaks {
	if breaks == nil {
		return nil
	}
	cloned := make(SpecificBreaks, len(breaks))
	for section, minutes := range breaks {
		cloned[section] = minutes
	}
	return cloned
}

type ScheduleSettings struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	StartHour      int            `gorm:"not null" json:"start_hour" yaml:"start_hour"`
	StartMinute    int            `gorm:"not null" json:"start_minute" yaml:"start_minute"`
	ClassDuration  int            `gorm:"not null" json:"class_duration" yaml:"class_duration"`
	BreakDuration  int            `gorm:"not null" json:"break_duration" yaml:"break_duration"`
	TotalSections  int            `gorm:"not null" json:"total_sections" yaml:"total_sections"`
	SpecificBreaks SpecificBreaks `gorm:"serializer:json" json:"specific_breaks" yaml:"specific_breaks"`
	UpdatedAt      time.Time      `json:"-" yaml:"-"`
}

func DefaultScheduleSettings() ScheduleSettings {
	return ScheduleSettings{
		StartHour:     DefaultStartHour,
		StartMinute:   DefaultStartMinute,
		ClassDuration: DefaultClassDuration,
		BreakDuration: DefaultBreakDuration,
		TotalSections: DefaultTotalSections,
		SpecificBreaks: SpecificBreaks{
			2: 20,
			4: 120,
		},
	}
}

// Course is a weekly recurring class occupying SectionCount consecutive
// sections starting at StartSection on DayOfWeek (1 = Monday, 7 = Sunday).
type Course struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name" yaml:"name"`
	DayOfWeek    int       `gorm:"not null" json:"day_of_week" yaml:"day_of_week"`
	StartSection int       `gorm:"not null" json:"start_section" yaml:"start_section"`
	SectionCount int       `gorm:"not null" json:"section_count" yaml:"section_count"`
	Room         string    `json:"room,omitempty" yaml:"room"`
	Color        string    `gorm:"not null" json:"color" yaml:"color"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
}

var CourseColors = []string{
	"bg-blue-100 text-blue-600",
	"bg-pink-100 text-pink-600",
	"bg-purple-100 text-purple-600",
	"bg-yellow-100 text-yellow-700",
	"bg-green-100 text-green-600",
	"bg-orange-100 text-orange-700",
	"bg-teal-100 text-teal-700",
	"bg-indigo-100 text-indigo-600",
	"bg-rose-100 text-rose-600",
	"bg-cyan-100 text-cyan-700",
}

func (ScheduleSettings) TableName() string { return "schedule_settings" }

func (Course) TableName() string { return "courses" }

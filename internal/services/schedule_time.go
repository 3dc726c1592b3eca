package services

import (
	"fmt"

	"github.com/terraincognita07/daybloom/internal/models"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day. Values past midnight wrap around;
// no day rollover is tracked.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func ClockFromMinutes(total int) ClockTime {
	wrapped := floorMod(total, minutesPerDay)
	return ClockTime{Hour: wrapped / 60, Minute: wrapped % 60}
}

func (clock ClockTime) Minutes() int {
	return clock.Hour*60 + clock.Minute
}

func (clock ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", clock.Hour, clock.Minute)
}

func (clock ClockTime) MarshalText() ([]byte, error) {
	return []byte(clock.String()), nil
}

type SectionRange struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// EffectiveBreak is the break following section: the configured override
// when one exists (zero included), otherwise the default break.
func EffectiveBreak(settings models.ScheduleSettings, section int) int {
	if minutes, ok := settings.SpecificBreaks.Lookup(section); ok {
		return minutes
	}
	return settings.BreakDuration
}

// SectionStartMinutes returns the minutes since midnight at which section
// begins, without wrapping.
func SectionStartMinutes(section int, settings models.ScheduleSettings) int {
	minutes := settings.StartHour*60 + settings.StartMinute
	for i := 1; i < section; i++ {
		minutes += settings.ClassDuration
		minutes += EffectiveBreak(settings, i)
	}
	return minutes
}

// SpanMinutes is the length of a block of count sections starting at
// section, including the breaks between them but not the one after the last.
func SpanMinutes(section int, count int, settings models.ScheduleSettings) int {
	duration := 0
	for offset := 0; offset < count; offset++ {
		duration += settings.ClassDuration
		if offset < count-1 {
			duration += EffectiveBreak(settings, section+offset)
		}
	}
	return duration
}

// ResolveSectionRange computes the wall-clock start and end of a block of
// count consecutive sections beginning at section (1-based). Inputs are not
// validated.
func ResolveSectionRange(section int, count int, settings models.ScheduleSettings) SectionRange {
	start := SectionStartMinutes(section, settings)
	end := start + SpanMinutes(section, count, settings)
	return SectionRange{
		Start: ClockFromMinutes(start),
		End:   ClockFromMinutes(end),
	}
}

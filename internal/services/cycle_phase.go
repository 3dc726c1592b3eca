package services

import (
	"time"

	"github.com/terraincognita07/daybloom/internal/models"
)

type Phase string

const (
	PhaseMenstrual    Phase = "MENSTRUAL"
	PhaseOvulationDay Phase = "OVULATION_DAY"
	PhaseOvulation    Phase = "OVULATION"
	PhaseSafe         Phase = "SAFE"
)

const (
	lutealPhaseDays      = 14
	fertileDaysBefore    = 5
	fertileDaysAfter     = 4
	upcomingPhaseDays    = 7
	recentPeriodLogLimit = 5
)

type phasePresentation struct {
	Label          string
	Color          string
	IndicatorColor string
}

var phasePresentations = map[Phase]phasePresentation{
	PhaseMenstrual:    {Label: "经期", Color: "text-pink-500", IndicatorColor: "bg-pink-400"},
	PhaseOvulationDay: {Label: "排卵日", Color: "text-purple-500", IndicatorColor: "bg-purple-400"},
	PhaseOvulation:    {Label: "排卵期", Color: "text-purple-400", IndicatorColor: "bg-purple-300"},
	PhaseSafe:         {Label: "安全期", Color: "text-green-500", IndicatorColor: "bg-green-400"},
}

type CyclePhase struct {
	Phase          Phase  `json:"phase"`
	DayOfCycle     int    `json:"day_of_cycle"`
	Label          string `json:"label"`
	Color          string `json:"color"`
	IndicatorColor string `json:"indicator_color"`
}

// OvulationDay is the estimated ovulation day of cycle, counted from 1. It is
// not clamped: short cycles give values at or below zero.
func OvulationDay(cycleLength int) int {
	return cycleLength - lutealPhaseDays
}

// FertileWindow returns the inclusive day-of-cycle bounds of the fertile
// window around the ovulation day.
func FertileWindow(cycleLength int) (int, int) {
	ovulationDay := OvulationDay(cycleLength)
	return ovulationDay - fertileDaysBefore, ovulationDay + fertileDaysAfter
}

// CycleDay returns the 1-based day of the cycle containing date. Dates before
// the anchor fall into earlier cycles through floor division. A non-positive
// cycle length disables wrapping instead of dividing by zero.
func CycleDay(date time.Time, anchor time.Time, cycleLength int) int {
	diffDays := CalendarDaysBetween(anchor, date)
	cycleIndex := 0
	if cycleLength > 0 {
		cycleIndex = floorDiv(diffDays, cycleLength)
	}
	return diffDays - cycleIndex*cycleLength + 1
}

// ResolveCyclePhase classifies date relative to data.LastPeriodStart. The
// menstrual range is checked first, then the ovulation day, then the fertile
// window; everything else is safe.
func ResolveCyclePhase(date time.Time, data models.PeriodData) CyclePhase {
	dayOfCycle := CycleDay(date, data.LastPeriodStart, data.CycleLength)
	ovulationDay := OvulationDay(data.CycleLength)
	windowStart, windowEnd := FertileWindow(data.CycleLength)

	phase := PhaseSafe
	switch {
	case dayOfCycle >= 1 && dayOfCycle <= data.PeriodLength:
		phase = PhaseMenstrual
	case dayOfCycle == ovulationDay:
		phase = PhaseOvulationDay
	case dayOfCycle >= windowStart && dayOfCycle <= windowEnd:
		phase = PhaseOvulation
	}

	presentation := phasePresentations[phase]
	return CyclePhase{
		Phase:          phase,
		DayOfCycle:     dayOfCycle,
		Label:          presentation.Label,
		Color:          presentation.Color,
		IndicatorColor: presentation.IndicatorColor,
	}
}

type DatedPhase struct {
	Date string     `json:"date"`
	Info CyclePhase `json:"info"`
}

// UpcomingPhases resolves today and the following days.
func UpcomingPhases(today time.Time, data models.PeriodData, days int) []DatedPhase {
	if days <= 0 {
		days = upcomingPhaseDays
	}
	start := dateOnly(today)
	result := make([]DatedPhase, 0, days)
	for offset := 0; offset < days; offset++ {
		day := start.AddDate(0, 0, offset)
		result = append(result, DatedPhase{
			Date: FormatDay(day),
			Info: ResolveCyclePhase(day, data),
		})
	}
	return result
}

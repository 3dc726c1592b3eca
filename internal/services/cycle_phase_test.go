package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daybloom/internal/models"
)

func samplePeriodData() models.PeriodData {
	return models.PeriodData{
		LastPeriodStart: mustParseDay("2023-10-01"),
		CycleLength:     28,
		PeriodLength:    5,
	}
}

func TestResolveCyclePhaseAnchorIsFirstMenstrualDay(t *testing.T) {
	data := samplePeriodData()

	got := ResolveCyclePhase(data.LastPeriodStart, data)

	assert.Equal(t, 1, got.DayOfCycle)
	assert.Equal(t, PhaseMenstrual, got.Phase)
	assert.Equal(t, "经期", got.Label)
}

func TestResolveCyclePhaseSafeDay(t *testing.T) {
	got := ResolveCyclePhase(mustParseDay("2023-10-20"), samplePeriodData())

	assert.Equal(t, 20, got.DayOfCycle)
	assert.Equal(t, PhaseSafe, got.Phase)
	assert.Equal(t, "bg-green-400", got.IndicatorColor)
}

func TestResolveCyclePhaseOvulationDay(t *testing.T) {
	got := ResolveCyclePhase(mustParseDay("2023-10-14"), samplePeriodData())

	assert.Equal(t, 14, got.DayOfCycle)
	assert.Equal(t, PhaseOvulationDay, got.Phase)
}

func TestResolveCyclePhaseFertileWindowEdges(t *testing.T) {
	data := samplePeriodData()
	cases := []struct {
		date  string
		day   int
		phase Phase
	}{
		{date: "2023-10-05", day: 5, phase: PhaseMenstrual},
		{date: "2023-10-06", day: 6, phase: PhaseSafe},
		{date: "2023-10-08", day: 8, phase: PhaseSafe},
		{date: "2023-10-09", day: 9, phase: PhaseOvulation},
		{date: "2023-10-13", day: 13, phase: PhaseOvulation},
		{date: "2023-10-15", day: 15, phase: PhaseOvulation},
		{date: "2023-10-18", day: 18, phase: PhaseOvulation},
		{date: "2023-10-19", day: 19, phase: PhaseSafe},
		{date: "2023-10-28", day: 28, phase: PhaseSafe},
		{date: "2023-10-29", day: 1, phase: PhaseMenstrual},
	}

	for _, tc := range cases {
		got := ResolveCyclePhase(mustParseDay(tc.date), data)
		assert.Equalf(t, tc.day, got.DayOfCycle, "day of cycle for %s", tc.date)
		assert.Equalf(t, tc.phase, got.Phase, "phase for %s", tc.date)
	}
}

func TestResolveCyclePhaseDayBeforeAnchorWrapsToCycleEnd(t *testing.T) {
	data := samplePeriodData()

	got := ResolveCyclePhase(mustParseDay("2023-09-30"), data)

	assert.Equal(t, data.CycleLength, got.DayOfCycle)
}

func TestResolveCyclePhaseFullCycleBeforeAnchor(t *testing.T) {
	data := samplePeriodData()

	got := ResolveCyclePhase(mustParseDay("2023-09-03"), data)

	assert.Equal(t, 1, got.DayOfCycle)
	assert.Equal(t, PhaseMenstrual, got.Phase)
}

func TestResolveCyclePhaseIsPeriodic(t *testing.T) {
	data := samplePeriodData()
	start := mustParseDay("2023-06-01")

	for offset := 0; offset < 200; offset++ {
		day := start.AddDate(0, 0, offset)
		later := day.AddDate(0, 0, data.CycleLength)

		current := ResolveCyclePhase(day, data)
		shifted := ResolveCyclePhase(later, data)

		require.Equalf(t, current.DayOfCycle, shifted.DayOfCycle, "day of cycle for %s", FormatDay(day))
		require.Equalf(t, current.Phase, shifted.Phase, "phase for %s", FormatDay(day))
		require.GreaterOrEqual(t, current.DayOfCycle, 1)
		require.LessOrEqual(t, current.DayOfCycle, data.CycleLength)
	}
}

func TestResolveCyclePhaseFarFutureWraps(t *testing.T) {
	data := samplePeriodData()

	got := ResolveCyclePhase(data.LastPeriodStart.AddDate(0, 0, 28*40+13), data)

	assert.Equal(t, 14, got.DayOfCycle)
	assert.Equal(t, PhaseOvulationDay, got.Phase)
}

func TestResolveCyclePhaseIgnoresTimeOfDay(t *testing.T) {
	data := samplePeriodData()
	lateEvening := time.Date(2023, time.October, 14, 23, 59, 0, 0, time.UTC)

	got := ResolveCyclePhase(lateEvening, data)

	assert.Equal(t, 14, got.DayOfCycle)
}

func TestResolveCyclePhaseMenstrualWinsOverlap(t *testing.T) {
	data := samplePeriodData()
	data.PeriodLength = 16

	got := ResolveCyclePhase(mustParseDay("2023-10-14"), data)

	assert.Equal(t, PhaseMenstrual, got.Phase)
}

func TestResolveCyclePhaseZeroPeriodLengthNeverMenstrual(t *testing.T) {
	data := samplePeriodData()
	data.PeriodLength = 0

	got := ResolveCyclePhase(data.LastPeriodStart, data)

	assert.Equal(t, 1, got.DayOfCycle)
	assert.Equal(t, PhaseSafe, got.Phase)
}

// Cycles shorter than the luteal phase push the fertile window before day 1.
// The heuristic is kept unclamped, so no day is ever classified as fertile.
func TestResolveCyclePhaseShortCycleWindowNeverMatches(t *testing.T) {
	data := models.PeriodData{
		LastPeriodStart: mustParseDay("2024-01-01"),
		CycleLength:     10,
		PeriodLength:    3,
	}

	start, end := FertileWindow(data.CycleLength)
	assert.Equal(t, -9, start)
	assert.Equal(t, 0, end)

	for offset := 0; offset < data.CycleLength; offset++ {
		got := ResolveCyclePhase(data.LastPeriodStart.AddDate(0, 0, offset), data)
		if offset < data.PeriodLength {
			assert.Equal(t, PhaseMenstrual, got.Phase)
			continue
		}
		assert.Equalf(t, PhaseSafe, got.Phase, "day %d", got.DayOfCycle)
	}
}

func TestResolveCyclePhaseNonPositiveCycleLengthDoesNotPanic(t *testing.T) {
	data := samplePeriodData()
	data.CycleLength = 0

	assert.NotPanics(t, func() {
		got := ResolveCyclePhase(mustParseDay("2023-10-03"), data)
		assert.Equal(t, 3, got.DayOfCycle)
	})
}

func TestUpcomingPhasesCoversSevenDays(t *testing.T) {
	data := samplePeriodData()

	got := UpcomingPhases(mustParseDay("2023-10-04"), data, 0)

	require.Len(t, got, 7)
	assert.Equal(t, "2023-10-04", got[0].Date)
	assert.Equal(t, PhaseMenstrual, got[1].Info.Phase)
	assert.Equal(t, PhaseSafe, got[2].Info.Phase)
	assert.Equal(t, "2023-10-10", got[6].Date)
	assert.Equal(t, PhaseOvulation, got[6].Info.Phase)
}

func mustParseDay(raw string) time.Time {
	parsed, err := ParseDay(raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

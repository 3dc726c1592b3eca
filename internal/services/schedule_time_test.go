package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daybloom/internal/models"
)

func uniformSettings() models.ScheduleSettings {
	return models.ScheduleSettings{
		StartHour:     8,
		StartMinute:   30,
		ClassDuration: 45,
		BreakDuration: 10,
		TotalSections: 12,
	}
}

func TestResolveSectionRangeFirstSectionStartsAtDayStart(t *testing.T) {
	settings := uniformSettings()

	got := ResolveSectionRange(1, 1, settings)

	assert.Equal(t, "08:30", got.Start.String())
	assert.Equal(t, "09:15", got.End.String())
}

func TestResolveSectionRangeConsecutiveSectionsTile(t *testing.T) {
	settings := uniformSettings()
	settings.BreakDuration = 0

	for section := 1; section < settings.TotalSections; section++ {
		current := ResolveSectionRange(section, 1, settings)
		next := ResolveSectionRange(section+1, 1, settings)
		require.Equalf(t, current.End, next.Start, "section %d end should meet section %d start", section, section+1)
	}
}

func TestResolveSectionRangeUniformBreakSpacing(t *testing.T) {
	settings := uniformSettings()

	for section := 1; section < settings.TotalSections; section++ {
		current := ResolveSectionRange(section, 1, settings)
		next := ResolveSectionRange(section+1, 1, settings)
		gap := next.Start.Minutes() - current.End.Minutes()
		require.Equalf(t, settings.BreakDuration, gap, "unexpected gap after section %d", section)
	}
}

func TestResolveSectionRangeSpecificBreakIsLocal(t *testing.T) {
	base := uniformSettings()
	overridden := uniformSettings()
	overridden.SpecificBreaks = models.SpecificBreaks{3: 30}

	for section := 1; section <= 3; section++ {
		assert.Equalf(t,
			ResolveSectionRange(section, 1, base).Start,
			ResolveSectionRange(section, 1, overridden).Start,
			"start of section %d should not move", section,
		)
	}

	shift := ResolveSectionRange(4, 1, overridden).Start.Minutes() - ResolveSectionRange(4, 1, base).Start.Minutes()
	assert.Equal(t, 20, shift)
	shiftLater := ResolveSectionRange(9, 1, overridden).Start.Minutes() - ResolveSectionRange(9, 1, base).Start.Minutes()
	assert.Equal(t, 20, shiftLater)
}

func TestResolveSectionRangeMultiSectionBlock(t *testing.T) {
	settings := models.ScheduleSettings{
		StartHour:      8,
		StartMinute:    0,
		ClassDuration:  45,
		BreakDuration:  10,
		TotalSections:  12,
		SpecificBreaks: models.SpecificBreaks{2: 20},
	}

	got := ResolveSectionRange(3, 2, settings)

	// 08:00 +45 +10 +45 +20 = 10:00, then 45 +10 +45 more. A 10:50 start
	// only appears if the sum above is added up wrong.
	assert.Equal(t, "10:00", got.Start.String())
	assert.Equal(t, "11:40", got.End.String())
}

func TestResolveSectionRangeBreakInsideSpanUsesOverride(t *testing.T) {
	settings := uniformSettings()
	settings.SpecificBreaks = models.SpecificBreaks{1: 5}

	got := ResolveSectionRange(1, 2, settings)

	assert.Equal(t, "08:30", got.Start.String())
	assert.Equal(t, "10:05", got.End.String())
}

func TestEffectiveBreakDistinguishesZeroOverride(t *testing.T) {
	settings := uniformSettings()
	settings.SpecificBreaks = models.SpecificBreaks{2: 0}

	assert.Equal(t, 10, EffectiveBreak(settings, 1))
	assert.Equal(t, 0, EffectiveBreak(settings, 2))
	assert.Equal(t, 10, EffectiveBreak(settings, 3))
}

func TestEffectiveBreakFallsBackToZeroDefault(t *testing.T) {
	settings := uniformSettings()
	settings.BreakDuration = 0
	settings.SpecificBreaks = nil

	assert.Equal(t, 0, EffectiveBreak(settings, 4))
}

func TestResolveSectionRangeWrapsPastMidnight(t *testing.T) {
	settings := models.ScheduleSettings{
		StartHour:     23,
		StartMinute:   0,
		ClassDuration: 50,
		BreakDuration: 10,
	}

	got := ResolveSectionRange(2, 1, settings)

	assert.Equal(t, "00:00", got.Start.String())
	assert.Equal(t, "00:50", got.End.String())
}

func TestClockFromMinutesNegativeWrapsBackwards(t *testing.T) {
	assert.Equal(t, "23:30", ClockFromMinutes(-30).String())
	assert.Equal(t, "00:00", ClockFromMinutes(minutesPerDay).String())
}

func TestResolveSectionRangeIsDeterministic(t *testing.T) {
	settings := models.DefaultScheduleSettings()

	first := ResolveSectionRange(5, 3, settings)
	second := ResolveSectionRange(5, 3, settings)

	assert.Equal(t, first, second)
}

func TestDefaultSettingsLunchBreak(t *testing.T) {
	settings := models.DefaultScheduleSettings()

	fourth := ResolveSectionRange(4, 1, settings)
	fifth := ResolveSectionRange(5, 1, settings)

	assert.Equal(t, "11:40", fourth.End.String())
	assert.Equal(t, "13:40", fifth.Start.String())
}

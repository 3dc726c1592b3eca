package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/daybloom/internal/models"
)

var (
	ErrPeriodLoadFailed    = errors.New("load period data failed")
	ErrPeriodSaveFailed    = errors.New("save period data failed")
	ErrPeriodLogSaveFailed = errors.New("save period log failed")
	ErrNothingToUndo       = errors.New("no previous period start to restore")
)

type PeriodStore interface {
	LoadTracker() (models.PeriodTracker, bool, error)
	SaveTracker(tracker *models.PeriodTracker) error
	ListLogs() ([]models.PeriodLog, error)
	FindLogByDayRange(dayStart time.Time, dayEnd time.Time) (models.PeriodLog, bool, error)
	CreateLog(entry *models.PeriodLog) error
	SaveLog(entry *models.PeriodLog) error
}

type PeriodLogInput struct {
	Flow     *int
	Mood     *string
	Symptoms []string
}

type CycleSettingsInput struct {
	CycleLength     int
	PeriodLength    int
	LastPeriodStart *time.Time
}

type PeriodOverview struct {
	Today              string             `json:"today"`
	Current            CyclePhase         `json:"current"`
	Progress           float64            `json:"progress"`
	OvulationDay       int                `json:"ovulation_day"`
	FertileWindowStart int                `json:"fertile_window_start"`
	FertileWindowEnd   int                `json:"fertile_window_end"`
	Upcoming           []DatedPhase       `json:"upcoming"`
	RecentLogs         []models.PeriodLog `json:"recent_logs"`
	CanUndo            bool               `json:"can_undo"`
	StartedToday       bool               `json:"started_today"`
	Data               models.PeriodData  `json:"data"`
}

type PeriodService struct {
	store    PeriodStore
	location *time.Location
}

func NewPeriodService(store PeriodStore, location *time.Location) *PeriodService {
	if location == nil {
		location = time.UTC
	}
	return &PeriodService{store: store, location: location}
}

// DefaultPeriodTracker anchors a fresh tracker on today with default lengths.
func DefaultPeriodTracker(now time.Time, location *time.Location) models.PeriodTracker {
	return models.PeriodTracker{
		LastPeriodStart: DateAtLocation(now, location),
		CycleLength:     models.DefaultCycleLength,
		PeriodLength:    models.DefaultPeriodLength,
	}
}

func (service *PeriodService) loadTracker(now time.Time) (models.PeriodTracker, error) {
	tracker, found, err := service.store.LoadTracker()
	if err != nil {
		return models.PeriodTracker{}, ErrPeriodLoadFailed
	}
	if found {
		tracker.LastPeriodStart = DateAtLocation(tracker.LastPeriodStart, service.location)
		if tracker.PreviousPeriodStart != nil {
			previous := DateAtLocation(*tracker.PreviousPeriodStart, service.location)
			tracker.PreviousPeriodStart = &previous
		}
		return tracker, nil
	}

	tracker = DefaultPeriodTracker(now, service.location)
	if err := service.store.SaveTracker(&tracker); err != nil {
		return models.PeriodTracker{}, ErrPeriodSaveFailed
	}
	return tracker, nil
}

func (service *PeriodService) Data(now time.Time) (models.PeriodData, error) {
	tracker, err := service.loadTracker(now)
	if err != nil {
		return models.PeriodData{}, err
	}
	logs, err := service.store.ListLogs()
	if err != nil {
		return models.PeriodData{}, ErrPeriodLoadFailed
	}
	return tracker.Data(logs), nil
}

// ApplyPeriodStart moves the anchor to today and keeps the replaced anchor
// as the single undo slot. It reports false when today is already the anchor.
func ApplyPeriodStart(tracker *models.PeriodTracker, today time.Time) bool {
	if sameDay(tracker.LastPeriodStart, today) {
		return false
	}
	previous := tracker.LastPeriodStart
	tracker.PreviousPeriodStart = &previous
	tracker.LastPeriodStart = dateOnly(today)
	return true
}

// ApplyUndoPeriodStart restores the anchor saved by ApplyPeriodStart. Only one
// step is kept; a second undo fails with ErrNothingToUndo.
func ApplyUndoPeriodStart(tracker *models.PeriodTracker) error {
	if tracker.PreviousPeriodStart == nil || tracker.PreviousPeriodStart.IsZero() {
		return ErrNothingToUndo
	}
	tracker.LastPeriodStart = *tracker.PreviousPeriodStart
	tracker.PreviousPeriodStart = nil
	return nil
}

func (service *PeriodService) MarkPeriodStart(now time.Time) (models.PeriodTracker, bool, error) {
	tracker, err := service.loadTracker(now)
	if err != nil {
		return models.PeriodTracker{}, false, err
	}
	if !ApplyPeriodStart(&tracker, DateAtLocation(now, service.location)) {
		return tracker, false, nil
	}
	if err := service.store.SaveTracker(&tracker); err != nil {
		return models.PeriodTracker{}, false, ErrPeriodSaveFailed
	}
	return tracker, true, nil
}

func (service *PeriodService) UndoPeriodStart(now time.Time) (models.PeriodTracker, error) {
	tracker, err := service.loadTracker(now)
	if err != nil {
		return models.PeriodTracker{}, err
	}
	if err := ApplyUndoPeriodStart(&tracker); err != nil {
		return tracker, err
	}
	if err := service.store.SaveTracker(&tracker); err != nil {
		return models.PeriodTracker{}, ErrPeriodSaveFailed
	}
	return tracker, nil
}

func (service *PeriodService) UpdateCycleSettings(now time.Time, input CycleSettingsInput) (models.PeriodTracker, error) {
	tracker, err := service.loadTracker(now)
	if err != nil {
		return models.PeriodTracker{}, err
	}

	tracker.CycleLength = input.CycleLength
	tracker.PeriodLength = input.PeriodLength
	if input.LastPeriodStart != nil {
		tracker.LastPeriodStart = DateAtLocation(*input.LastPeriodStart, service.location)
	}

	if err := service.store.SaveTracker(&tracker); err != nil {
		return models.PeriodTracker{}, ErrPeriodSaveFailed
	}
	return tracker, nil
}

// SaveLog stores the log for day, replacing any log already kept for that
// calendar date.
func (service *PeriodService) SaveLog(day time.Time, input PeriodLogInput) (models.PeriodLog, error) {
	dayStart, dayEnd := DayRange(day, service.location)
	entry, found, err := service.store.FindLogByDayRange(dayStart, dayEnd)
	if err != nil {
		return models.PeriodLog{}, ErrPeriodLoadFailed
	}

	entry.Date = dayStart
	entry.Flow = input.Flow
	entry.Mood = normalizeMood(input.Mood)
	entry.Symptoms = normalizeSymptoms(input.Symptoms)

	if found {
		err = service.store.SaveLog(&entry)
	} else {
		err = service.store.CreateLog(&entry)
	}
	if err != nil {
		return models.PeriodLog{}, ErrPeriodLogSaveFailed
	}
	return entry, nil
}

func (service *PeriodService) PhaseOn(day time.Time, now time.Time) (CyclePhase, error) {
	data, err := service.Data(now)
	if err != nil {
		return CyclePhase{}, err
	}
	return ResolveCyclePhase(DateAtLocation(day, service.location), data), nil
}

func (service *PeriodService) Overview(now time.Time) (PeriodOverview, error) {
	data, err := service.Data(now)
	if err != nil {
		return PeriodOverview{}, err
	}
	return BuildPeriodOverview(DateAtLocation(now, service.location), data), nil
}

func BuildPeriodOverview(today time.Time, data models.PeriodData) PeriodOverview {
	current := ResolveCyclePhase(today, data)
	windowStart, windowEnd := FertileWindow(data.CycleLength)

	progress := 0.0
	if data.CycleLength > 0 {
		progress = float64(current.DayOfCycle) / float64(data.CycleLength)
	}

	return PeriodOverview{
		Today:              FormatDay(today),
		Current:            current,
		Progress:           progress,
		OvulationDay:       OvulationDay(data.CycleLength),
		FertileWindowStart: windowStart,
		FertileWindowEnd:   windowEnd,
		Upcoming:           UpcomingPhases(today, data, upcomingPhaseDays),
		RecentLogs:         RecentPeriodLogs(data.Logs, recentPeriodLogLimit),
		CanUndo:            data.PreviousPeriodStart != nil,
		StartedToday:       sameDay(data.LastPeriodStart, today),
		Data:               data,
	}
}

// RecentPeriodLogs returns up to limit logs, newest date first.
func RecentPeriodLogs(logs []models.PeriodLog, limit int) []models.PeriodLog {
	sorted := make([]models.PeriodLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func normalizeMood(mood *string) *string {
	if mood == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*mood)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeSymptoms(symptoms []string) []string {
	seen := make(map[string]struct{}, len(symptoms))
	normalized := make([]string, 0, len(symptoms))
	for _, symptom := range symptoms {
		trimmed := strings.TrimSpace(symptom)
		if trimmed == "" {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/daybloom/internal/models"
)

var (
	ErrSpecialDayNotFound      = errors.New("special day not found")
	ErrSpecialDayTitleRequired = errors.New("special day title is required")
	ErrSpecialDayInvalidDate   = errors.New("invalid special day date")
	ErrSpecialDayInvalidType   = errors.New("invalid special day type")
	ErrSpecialDayLoadFailed    = errors.New("load special days failed")
	ErrSpecialDaySaveFailed    = errors.New("save special day failed")
	ErrSpecialDayDeleteFailed  = errors.New("delete special day failed")
)

const (
	countdownLabelPast        = "天已过"
	countdownLabelAnniversary = "天纪念"
	countdownLabelRemaining   = "天剩余"
)

type SpecialDayStore interface {
	List() ([]models.SpecialDay, error)
	Find(id string) (models.SpecialDay, bool, error)
	Create(day *models.SpecialDay) error
	Save(day *models.SpecialDay) error
	Delete(id string) (bool, error)
}

type SpecialDayInput struct {
	Title string
	Date  string
	Type  string
}

type SpecialDayCountdown struct {
	SpecialDay models.SpecialDay `json:"special_day"`
	Days       int               `json:"days"`
	IsPast     bool              `json:"is_past"`
	Label      string            `json:"label"`
}

type SpecialDayService struct {
	store    SpecialDayStore
	location *time.Location
	newID    func() string
}

func NewSpecialDayService(store SpecialDayStore, location *time.Location) *SpecialDayService {
	if location == nil {
		location = time.UTC
	}
	return &SpecialDayService{store: store, location: location, newID: uuid.NewString}
}

func (service *SpecialDayService) normalizeInput(input SpecialDayInput) (SpecialDayInput, error) {
	normalized := SpecialDayInput{
		Title: strings.TrimSpace(input.Title),
		Date:  strings.TrimSpace(input.Date),
		Type:  strings.ToUpper(strings.TrimSpace(input.Type)),
	}
	if normalized.Title == "" {
		return SpecialDayInput{}, ErrSpecialDayTitleRequired
	}
	if _, err := ParseDay(normalized.Date, service.location); err != nil {
		return SpecialDayInput{}, ErrSpecialDayInvalidDate
	}
	switch normalized.Type {
	case "":
		normalized.Type = models.SpecialDayCountdown
	case models.SpecialDayCountdown, models.SpecialDayAnniversary:
	default:
		return SpecialDayInput{}, ErrSpecialDayInvalidType
	}
	return normalized, nil
}

func (service *SpecialDayService) List() ([]models.SpecialDay, error) {
	days, err := service.store.List()
	if err != nil {
		return nil, ErrSpecialDayLoadFailed
	}
	return days, nil
}

func (service *SpecialDayService) Create(input SpecialDayInput) (models.SpecialDay, error) {
	normalized, err := service.normalizeInput(input)
	if err != nil {
		return models.SpecialDay{}, err
	}

	day := models.SpecialDay{
		ID:    service.newID(),
		Title: normalized.Title,
		Date:  normalized.Date,
		Type:  normalized.Type,
	}
	if err := service.store.Create(&day); err != nil {
		return models.SpecialDay{}, ErrSpecialDaySaveFailed
	}
	return day, nil
}

func (service *SpecialDayService) Update(id string, input SpecialDayInput) (models.SpecialDay, error) {
	normalized, err := service.normalizeInput(input)
	if err != nil {
		return models.SpecialDay{}, err
	}

	day, found, err := service.store.Find(strings.TrimSpace(id))
	if err != nil {
		return models.SpecialDay{}, ErrSpecialDayLoadFailed
	}
	if !found {
		return models.SpecialDay{}, ErrSpecialDayNotFound
	}

	day.Title = normalized.Title
	day.Date = normalized.Date
	day.Type = normalized.Type
	if err := service.store.Save(&day); err != nil {
		return models.SpecialDay{}, ErrSpecialDaySaveFailed
	}
	return day, nil
}

func (service *SpecialDayService) Delete(id string) error {
	deleted, err := service.store.Delete(strings.TrimSpace(id))
	if err != nil {
		return ErrSpecialDayDeleteFailed
	}
	if !deleted {
		return ErrSpecialDayNotFound
	}
	return nil
}

func (service *SpecialDayService) Countdowns(now time.Time) ([]SpecialDayCountdown, error) {
	days, err := service.List()
	if err != nil {
		return nil, err
	}

	today := DateAtLocation(now, service.location)
	countdowns := make([]SpecialDayCountdown, 0, len(days))
	for _, day := range days {
		date, err := ParseDay(day.Date, service.location)
		if err != nil {
			continue
		}
		countdowns = append(countdowns, BuildSpecialDayCountdown(day, date, today))
	}
	return countdowns, nil
}

// BuildSpecialDayCountdown measures the absolute distance between today and
// the event date. Past events are labelled as elapsed whatever their type.
func BuildSpecialDayCountdown(day models.SpecialDay, date time.Time, today time.Time) SpecialDayCountdown {
	isPast := CalendarDaysBetween(today, date) < 0

	label := countdownLabelRemaining
	switch {
	case isPast:
		label = countdownLabelPast
	case day.Type == models.SpecialDayAnniversary:
		label = countdownLabelAnniversary
	}

	return SpecialDayCountdown{
		SpecialDay: day,
		Days:       DayDifference(today, date),
		IsPast:     isPast,
		Label:      label,
	}
}

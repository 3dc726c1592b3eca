package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/terraincognita07/daybloom/internal/logging"
	"github.com/terraincognita07/daybloom/internal/models"
	"github.com/terraincognita07/daybloom/internal/services"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSeed = errors.New("invalid seed file")

// Seed is the optional YAML document with initial organizer state.
type Seed struct {
	Schedule    *models.ScheduleSettings `yaml:"schedule"`
	Period      *SeedPeriod              `yaml:"period"`
	Courses     []models.Course          `yaml:"courses"`
	SpecialDays []models.SpecialDay      `yaml:"special_days"`
}

type SeedPeriod struct {
	LastPeriodStart string `yaml:"last_period_start"`
	CycleLength     int    `yaml:"cycle_length"`
	PeriodLength    int    `yaml:"period_length"`
}

type ScheduleTarget interface {
	ReplaceSettings(settings models.ScheduleSettings) (models.ScheduleSettings, error)
	Courses() ([]models.Course, error)
	CreateCourse(input services.CourseInput) (models.Course, error)
}

type PeriodTarget interface {
	UpdateCycleSettings(now time.Time, input services.CycleSettingsInput) (models.PeriodTracker, error)
}

type SpecialDayTarget interface {
	List() ([]models.SpecialDay, error)
	Create(input services.SpecialDayInput) (models.SpecialDay, error)
}

func LoadSeed(path string) (Seed, error) {
	file, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()
	return ParseSeed(file)
}

func ParseSeed(reader io.Reader) (Seed, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if len(bytes.TrimSpace(raw)) == 0 {
		return seed, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (seed Seed) Validate() error {
	if seed.Schedule != nil {
		if err := services.ValidateScheduleSettings(*seed.Schedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}
	}
	if seed.Period != nil {
		if seed.Period.CycleLength <= 0 || seed.Period.PeriodLength <= 0 {
			return fmt.Errorf("%w: cycle and period length must be positive", ErrInvalidSeed)
		}
		if seed.Period.PeriodLength >= seed.Period.CycleLength {
			return fmt.Errorf("%w: period length must be shorter than the cycle", ErrInvalidSeed)
		}
		if seed.Period.LastPeriodStart != "" {
			if _, err := services.ParseDay(seed.Period.LastPeriodStart, time.UTC); err != nil {
				return fmt.Errorf("%w: last_period_start %q", ErrInvalidSeed, seed.Period.LastPeriodStart)
			}
		}
	}
	return nil
}

// ApplySettings pushes the schedule and cycle settings into the services.
// Sections absent from the seed are left untouched.
func (seed Seed) ApplySettings(schedule ScheduleTarget, period PeriodTarget, now time.Time) error {
	if seed.Schedule != nil && schedule != nil {
		if _, err := schedule.ReplaceSettings(*seed.Schedule); err != nil {
			return fmt.Errorf("apply schedule settings: %w", err)
		}
	}
	if seed.Period != nil && period != nil {
		input := services.CycleSettingsInput{
			CycleLength:  seed.Period.CycleLength,
			PeriodLength: seed.Period.PeriodLength,
		}
		if seed.Period.LastPeriodStart != "" {
			start, err := services.ParseDay(seed.Period.LastPeriodStart, now.Location())
			if err != nil {
				return fmt.Errorf("apply period settings: %w", err)
			}
			input.LastPeriodStart = &start
		}
		if _, err := period.UpdateCycleSettings(now, input); err != nil {
			return fmt.Errorf("apply period settings: %w", err)
		}
	}
	return nil
}

// ApplyEntries creates the seeded courses and special days, each list only
// when its store is still empty.
func (seed Seed) ApplyEntries(schedule ScheduleTarget, specialDays SpecialDayTarget, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	if len(seed.Courses) > 0 && schedule != nil {
		existing, err := schedule.Courses()
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		if len(existing) == 0 {
			for _, course := range seed.Courses {
				if _, err := schedule.CreateCourse(services.CourseInput{
					Name:         course.Name,
					DayOfWeek:    course.DayOfWeek,
					StartSection: course.StartSection,
					SectionCount: course.SectionCount,
					Room:         course.Room,
					Color:        course.Color,
				}); err != nil {
					logger.Warn("skip seeded course", zap.String("name", course.Name), zap.Error(err))
				}
			}
		}
	}

	if len(seed.SpecialDays) > 0 && specialDays != nil {
		existing, err := specialDays.List()
		if err != nil {
			return fmt.Errorf("list special days: %w", err)
		}
		if len(existing) == 0 {
			for _, day := range seed.SpecialDays {
				if _, err := specialDays.Create(services.SpecialDayInput{
					Title: day.Title,
					Date:  day.Date,
					Type:  day.Type,
				}); err != nil {
					logger.Warn("skip seeded special day", zap.String("title", day.Title), zap.Error(err))
				}
			}
		}
	}
	return nil
}

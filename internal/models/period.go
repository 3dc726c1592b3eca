package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

const (
	FlowLight  = 1
	FlowMedium = 2
	FlowHeavy  = 3
)

// PeriodTracker is the persisted cycle anchor. PreviousPeriodStart keeps the
// anchor that was replaced by the last "period started today" action so it
// can be restored once.
type PeriodTracker struct {
	ID                  uint       `gorm:"primaryKey"`
	LastPeriodStart     time.Time  `gorm:"type:date;not null"`
	PreviousPeriodStart *time.Time `gorm:"type:date"`
	CycleLength         int        `gorm:"not null"`
	PeriodLength        int        `gorm:"not null"`
	UpdatedAt           time.Time
}

type PeriodLog struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	Flow      *int      `json:"flow,omitempty"`
	Mood      *string   `json:"mood,omitempty"`
	Symptoms  []string  `gorm:"serializer:json" json:"symptoms,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PeriodData is the value passed into the cycle phase resolver.
type PeriodData struct {
	LastPeriodStart     time.Time   `json:"last_period_start"`
	PreviousPeriodStart *time.Time  `json:"previous_period_start,omitempty"`
	CycleLength         int         `json:"cycle_length"`
	PeriodLength        int         `json:"period_length"`
	Logs                []PeriodLog `json:"logs"`
}

func (tracker PeriodTracker) Data(logs []PeriodLog) PeriodData {
	return PeriodData{
		LastPeriodStart:     tracker.LastPeriodStart,
		PreviousPeriodStart: tracker.PreviousPeriodStart,
		CycleLength:         tracker.CycleLength,
		PeriodLength:        tracker.PeriodLength,
		Logs:                logs,
	}
}

var DefaultMoods = []string{"😊", "😐", "😞", "😡", "😴"}

var DefaultPeriodSymptoms = []string{"腹痛", "腰酸", "头痛", "乏力", "长痘", "胸胀", "失眠", "食欲大"}

func (PeriodTracker) TableName() string { return "period_trackers" }

func (PeriodLog) TableName() string { return "period_logs" }

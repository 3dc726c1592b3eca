package models

import "time"

const (
	SpecialDayCountdown   = "COUNTDOWN"
	SpecialDayAnniversary = "ANNIVERSARY"
)

type SpecialDay struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title" yaml:"title"`
	Date      string    `gorm:"not null" json:"date" yaml:"date"`
	Type      string    `gorm:"not null" json:"type" yaml:"type"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

func (SpecialDay) TableName() string { return "special_days" }

package models

import "time"

type TodoItem struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Text          string    `gorm:"not null" json:"text"`
	Completed     bool      `gorm:"not null;default:false" json:"completed"`
	Date          string    `gorm:"not null;index" json:"date"`
	Time          string    `json:"time,omitempty"`
	Reward        string    `json:"reward,omitempty"`
	RewardClaimed bool      `gorm:"not null;default:false" json:"reward_claimed"`
	Points        int       `json:"points,omitempty"`
	IsStarred     bool      `gorm:"not null;default:false" json:"is_starred"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NoteItem struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	Date      time.Time `gorm:"not null" json:"date"`
	Color     string    `gorm:"not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

var NoteColors = []string{"bg-yellow-100", "bg-blue-100", "bg-pink-100", "bg-green-100", "bg-purple-100"}

func (TodoItem) TableName() string { return "todo_items" }

func (NoteItem) TableName() string { return "note_items" }

package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Tasks      []Task       `gorm:"foreignKey:UserID" json:"-"`
	Attendance []Attendance `gorm:"foreignKey:UserID" json:"-"`
}

package models

import (
	"time"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:150;not null;uniqueIndex"`
	Email          string `gorm:"size:254;not null;uniqueIndex"`
	HashedPassword []byte `gorm:"not null"`
	FirstName      string `gorm:"size:150;not null;default:''"`
	LastName       string `gorm:"size:150;not null;default:''"`
	// IsActive gates login and bearer authentication. Accounts are disabled
	// rather than deleted so their budgets stay intact.
	IsActive bool     `gorm:"not null;default:true"`
	Budgets  []Budget `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (User) TableName() string { return "users" }

package models

import (
	"time"

	"budgettracker/pkg/money"
)

// Budget is a dated starting amount owned by exactly one user.
type Budget struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint         `gorm:"not null;index;index:idx_budgets_user_date,priority:1"`
	Title         string       `gorm:"size:255;not null"`
	Description   string       `gorm:"type:text;not null;default:''"`
	Date          time.Time    `gorm:"type:date;not null;index:idx_budgets_user_date,priority:2"`
	InitialAmount money.Amount `gorm:"type:numeric(10,2);not null"`
}

func (Budget) TableName() string { return "budgets" }

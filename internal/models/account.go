package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a user account in the system
type Account struct {
	Username    string         `gorm:"primaryKey;size:30;not null" json:"username" binding:"required,alphanum"`
	Email       string         `gorm:"uniqueIndex;size:255;not null" json:"email" binding:"required,email"`
	DisplayName string         `gorm:"size:50" json:"display_name"`
	DateJoined  time.Time      `gorm:"not null" json:"date_joined"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	if a.DateJoined.IsZero() {
		a.DateJoined = now
	}
	if a.DisplayName == "" {
		a.DisplayName = a.Username
	}
	return nil
}

// BeforeSave hook is called before saving the account
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}

// CreateAccountRequest represents the data needed to create a new account
type CreateAccountRequest struct {
	Username    string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"max=50"`
}

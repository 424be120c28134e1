package models

import "time"

// User represents a registered account. The password field holds a bcrypt
// hash and is never serialized.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Bio       string    `json:"bio" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(512)"`
	Active    bool      `json:"-" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

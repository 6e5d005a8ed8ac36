package models

import "time"

// Rider is the booking customer. Contact fields feed the side-effect
// dispatcher (push token, email); phone is stored E.164-normalized.
type Rider struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:32" json:"phone"`
	DeviceToken *string   `gorm:"size:512" json:"device_token"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

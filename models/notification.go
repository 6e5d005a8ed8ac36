package models

import "time"

// Notification is an in-app notification row. Created synchronously inside
// the transition transaction (unlike push/email, which go through the
// effect outbox).
type Notification struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	FromRole  string    `gorm:"size:16;not null" json:"from_role"`
	FromId    int       `gorm:"not null" json:"from_id"`
	ToRole    string    `gorm:"size:16;not null" json:"to_role"`
	ToId      int       `gorm:"not null;index" json:"to_id"`
	DeepLink  string    `gorm:"size:255" json:"deep_link"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

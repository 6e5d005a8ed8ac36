package models

import "time"

// BookingAssignment links an agent to a booking. At most one accepted row per
// booking; several pending rows may exist after a broadcast. Rows are removed
// when the booking reaches a terminal status or the accepted agent rejects.
type BookingAssignment struct {
	ID        int       `gorm:"primary_key" json:"id"`
	BookingId string    `gorm:"size:32;not null;index:uniq_assignment,unique" json:"booking_id"`
	AgentId   int       `gorm:"not null;index:uniq_assignment,unique" json:"agent_id"`
	Vertical  Vertical  `gorm:"size:4;not null" json:"vertical"`
	Accepted  bool      `gorm:"not null;default:false;index" json:"accepted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

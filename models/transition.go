package models

import "time"

// TransitionRecord is one accepted lifecycle transition. Rows are append-only
// and never updated or deleted. The unique index over
// (booking_id, agent_id, status) doubles as the idempotency record: a
// duplicate event delivery fails the insert and is reported as a no-op.
//
// Each vertical has its own history table; use Table(def.HistoryTable).
type TransitionRecord struct {
	ID              int           `gorm:"primary_key" json:"id"`
	BookingId       string        `gorm:"size:32;not null;index:uniq_transition,unique" json:"booking_id"`
	AgentId         int           `gorm:"not null;index:uniq_transition,unique" json:"agent_id"`
	Status          BookingStatus `gorm:"size:4;not null;index:uniq_transition,unique" json:"status"`
	RiderId         int           `gorm:"not null;index" json:"rider_id"`
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	MediaRefs       *string       `gorm:"size:1024" json:"media_refs"`
	BatterySnapshot *string       `gorm:"size:255" json:"battery_snapshot"`
	Reason          *string       `gorm:"size:255" json:"reason"`
	Remarks         *string       `gorm:"type:text" json:"remarks"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

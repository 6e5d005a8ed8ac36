package models

import "time"

// ChargerDevice is the attached-hardware state for pod-based verticals.
// Rows are provisioned by fleet tooling; this engine only mutates busy,
// location and the battery snapshot (last-writer-wins).
type ChargerDevice struct {
	ID              int       `gorm:"primary_key" json:"id"`
	DeviceId        string    `gorm:"size:64;not null;unique" json:"device_id"`
	Busy            bool      `gorm:"not null;default:false" json:"busy"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	BatterySnapshot *string   `gorm:"size:255" json:"battery_snapshot"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

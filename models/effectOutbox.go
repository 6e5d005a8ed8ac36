package models

import "time"

// EffectRecord is a transactional-outbox row for one push/email side effect.
// Appended inside the transition transaction; a background dispatcher claims
// PENDING/FAILED rows, delivers them to the configured sinks, and applies
// exponential backoff. Poison rows go DEAD after MaxAttempts.
type EffectRecord struct {
	ID               int           `gorm:"primary_key" json:"id"`
	BookingId        string        `gorm:"size:32;not null;index" json:"booking_id"`
	RiderId          int           `gorm:"not null" json:"rider_id"`
	Kind             EffectKind    `gorm:"size:8;not null" json:"kind"`
	Status           BookingStatus `gorm:"size:4;not null" json:"status"`
	Payload          string        `gorm:"type:json;not null" json:"payload"`
	PublishStatus    EffectPublishStatus `gorm:"size:16;not null;index" json:"publish_status"`
	PublishAttempts  int           `gorm:"not null;default:0" json:"publish_attempts"`
	LastPublishError *string       `gorm:"type:text" json:"last_publish_error"`
	NextAttemptAt    *time.Time    `json:"next_attempt_at"`
	LockedAt         *time.Time    `json:"locked_at"`
	LockedBy         *string       `gorm:"size:64" json:"locked_by"`
	PublishedAt      *time.Time    `json:"published_at"`
	CorrelationId    string        `gorm:"size:64" json:"correlation_id"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

package workflow

import (
	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
)

// TransitionEvent is the status-agnostic event an agent submits against a
// booking. One payload shape serves every status; which optional fields are
// mandatory depends on the target status.
type TransitionEvent struct {
	BookingId          string
	AgentId            int
	AgentName          string
	TargetStatus       models.BookingStatus
	Latitude           *float64
	Longitude          *float64
	Reason             string
	DeviceId           string
	MediaRefs          []string
	BatteryPercentages []float64
	Remarks            string
	CorrelationId      string
}

// ValidateEvent checks the event against the vertical's status set and the
// per-status required fields. Purely in-memory, no database access.
func ValidateEvent(def *WorkflowDefinition, ev *TransitionEvent) error {
	if ev.BookingId == "" {
		return &MissingFieldError{Field: "booking_id"}
	}
	if ev.AgentId <= 0 {
		return &MissingFieldError{Field: "agent_id"}
	}
	// Created is set at booking creation and can never be an event target.
	if ev.TargetStatus == models.StatusCreated || !def.KnowsStatus(ev.TargetStatus) {
		return ErrInvalidStatus
	}
	if ev.Latitude == nil {
		return &MissingFieldError{Field: "latitude"}
	}
	if ev.Longitude == nil {
		return &MissingFieldError{Field: "longitude"}
	}
	if ev.TargetStatus == models.StatusCancelled && ev.Reason == "" {
		return &MissingFieldError{Field: "reason"}
	}
	if def.ChargingStartStatus != "" && ev.TargetStatus == def.ChargingStartStatus {
		if ev.DeviceId == "" {
			return &MissingFieldError{Field: "device_id"}
		}
		if config.RequireChargingPhoto() && len(ev.MediaRefs) == 0 {
			return ErrMediaRequired
		}
	}
	return nil
}

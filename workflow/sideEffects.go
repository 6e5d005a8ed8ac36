package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"gorm.io/gorm"
)

// EffectPayload is the sink-facing body stored on an outbox row.
type EffectPayload struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Subject     string `json:"subject,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
	Email       string `json:"email,omitempty"`
	DeepLink    string `json:"deep_link"`
}

// StatusNotification returns the rider-facing title and message for one
// transition. Cancellations carry the agent's reason.
func StatusNotification(def *WorkflowDefinition, ev *TransitionEvent) (title, message string) {
	title = fmt.Sprintf("%s %s", def.Name, ev.BookingId)
	message = def.StatusMessages[ev.TargetStatus]
	if message == "" {
		message = fmt.Sprintf("Your booking %s status is now %s", ev.BookingId, ev.TargetStatus)
	}
	if ev.TargetStatus == models.StatusCancelled && ev.Reason != "" {
		message = message + ". Reason: " + ev.Reason
	}
	return title, message
}

// BuildTransitionEffects composes the in-app notification plus the outbox
// rows for one accepted transition. Deterministic given its inputs; the
// engine persists everything inside the transition transaction so effects
// exist iff the transition committed.
func BuildTransitionEffects(def *WorkflowDefinition, booking *models.BookingRow, ev *TransitionEvent, rider *models.Rider) (models.Notification, []models.EffectRecord, error) {
	title, message := StatusNotification(def, ev)
	deepLink := fmt.Sprintf("app://bookings/%s/%s", def.DeepLinkTag, ev.BookingId)

	noti := models.Notification{
		Kind:     "booking_status",
		Title:    title,
		Message:  message,
		FromRole: "agent",
		FromId:   ev.AgentId,
		ToRole:   "rider",
		ToId:     booking.RiderId,
		DeepLink: deepLink,
	}

	var effects []models.EffectRecord
	if rider.DeviceToken != nil && *rider.DeviceToken != "" {
		body, err := json.Marshal(EffectPayload{
			Title:       title,
			Message:     message,
			DeviceToken: *rider.DeviceToken,
			DeepLink:    deepLink,
		})
		if err != nil {
			return noti, nil, err
		}
		effects = append(effects, models.EffectRecord{
			BookingId:     ev.BookingId,
			RiderId:       booking.RiderId,
			Kind:          models.EffectKindPush,
			Status:        ev.TargetStatus,
			Payload:       string(body),
			PublishStatus: models.EffectPublishStatusPending,
			CorrelationId: ev.CorrelationId,
		})
	}
	if subject, ok := def.EmailMilestones[ev.TargetStatus]; ok && utils.IsValidEmail(rider.Email) {
		body, err := json.Marshal(EffectPayload{
			Title:    title,
			Message:  message,
			Subject:  subject,
			Email:    rider.Email,
			DeepLink: deepLink,
		})
		if err != nil {
			return noti, nil, err
		}
		effects = append(effects, models.EffectRecord{
			BookingId:     ev.BookingId,
			RiderId:       booking.RiderId,
			Kind:          models.EffectKindEmail,
			Status:        ev.TargetStatus,
			Payload:       string(body),
			PublishStatus: models.EffectPublishStatusPending,
			CorrelationId: ev.CorrelationId,
		})
	}
	return noti, effects, nil
}

// BuildRejectionEffect stages an ops-mailbox email for a declined offer. The
// rider never hears about a single agent declining; dispatch keeps offering
// the booking to the remaining agents. Returns nil when no ops mailbox is
// configured (OPS_ALERT_EMAIL).
func BuildRejectionEffect(def *WorkflowDefinition, booking *models.BookingRow, ev *TransitionEvent) (*models.EffectRecord, error) {
	opsEmail := strings.TrimSpace(os.Getenv("OPS_ALERT_EMAIL"))
	if !utils.IsValidEmail(opsEmail) {
		return nil, nil
	}
	body, err := json.Marshal(EffectPayload{
		Title:   fmt.Sprintf("%s %s", def.Name, ev.BookingId),
		Message: fmt.Sprintf("Agent %d declined booking %s. Reason: %s", ev.AgentId, ev.BookingId, ev.Reason),
		Subject: fmt.Sprintf("Offer declined for %s", ev.BookingId),
		Email:   opsEmail,
	})
	if err != nil {
		return nil, err
	}
	return &models.EffectRecord{
		BookingId:     ev.BookingId,
		RiderId:       booking.RiderId,
		Kind:          models.EffectKindEmail,
		Status:        ev.TargetStatus,
		Payload:       string(body),
		PublishStatus: models.EffectPublishStatusPending,
		CorrelationId: ev.CorrelationId,
	}, nil
}

// LookupRider fetches the rider contact row through the redis read-through
// cache. Cache misses and redis errors both fall back to the database.
func LookupRider(tx *gorm.DB, riderId int) (*models.Rider, error) {
	key := fmt.Sprintf("Rider:%d", riderId)
	var cached models.Rider
	if found, err := config.GetRedisObject(key, &cached); err == nil && found {
		return &cached, nil
	}
	var rider models.Rider
	if err := tx.Where("id = ?", riderId).First(&rider).Error; err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(key, rider, 15*time.Minute)
	return &rider, nil
}

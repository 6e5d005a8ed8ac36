package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSink delivers one push notification. Implementations must be safe for
// concurrent use.
type PushSink interface {
	SendPush(ctx context.Context, deviceToken, title, message, deepLink string) error
}

// EmailSink delivers one transactional email.
type EmailSink interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EffectDispatcher drains the effect outbox: claims batches of eligible rows,
// delivers them to the configured sinks and applies exponential backoff on
// failure. Poison rows go DEAD after MaxAttempts. Multiple dispatchers can
// run against the same table; SKIP LOCKED keeps their batches disjoint.
type EffectDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	DispatcherID string

	Push  PushSink
	Email EmailSink

	BatchSize      int
	PollInterval   time.Duration
	LockTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

func NewEffectDispatcher(db *gorm.DB, logger *logrus.Logger, push PushSink, email EmailSink) *EffectDispatcher {
	return &EffectDispatcher{
		DB:             db,
		Logger:         logger,
		DispatcherID:   uuid.NewString(),
		Push:           push,
		Email:          email,
		BatchSize:      50,
		PollInterval:   500 * time.Millisecond,
		LockTimeout:    30 * time.Second,
		MaxAttempts:    20,
		InitialBackoff: 5 * time.Second,
	}
}

func (d *EffectDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *EffectDispatcher) dispatchOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-d.LockTimeout)
	db := d.DB
	if db == nil {
		return
	}

	var claimed []models.EffectRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Eligible:
		// - PENDING / FAILED and ready to retry
		// - PROCESSING but lock is stale (dispatcher crashed mid-batch), reclaim after LockTimeout
		q := tx.
			Where(`
				(
					publish_status IN ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
				)
				OR
				(
					publish_status = ? AND locked_at IS NOT NULL AND locked_at <= ?
				)
			`, []string{models.EffectPublishStatusPending, models.EffectPublishStatusFailed}, now, models.EffectPublishStatusProcessing, staleBefore).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for i := range claimed {
			// Enforce max attempts: poison effects go terminal (DLQ equivalent).
			if d.MaxAttempts > 0 && claimed[i].PublishAttempts >= d.MaxAttempts {
				msg := fmt.Sprintf("max delivery attempts exceeded (%d)", d.MaxAttempts)
				claimed[i].PublishStatus = models.EffectPublishStatusDead
				if err := tx.Model(&models.EffectRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
					"publish_status":     models.EffectPublishStatusDead,
					"last_publish_error": &msg,
					"next_attempt_at":    nil,
					"locked_at":          nil,
					"locked_by":          nil,
				}).Error; err != nil {
					return err
				}
				continue
			}

			// Claim for delivery.
			claimed[i].PublishStatus = models.EffectPublishStatusProcessing
			claimed[i].LockedAt = &now
			claimed[i].LockedBy = &d.DispatcherID
			claimed[i].PublishAttempts = claimed[i].PublishAttempts + 1
			claimed[i].LastPublishError = nil
			if err := tx.Model(&models.EffectRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
				"publish_status":     claimed[i].PublishStatus,
				"locked_at":          claimed[i].LockedAt,
				"locked_by":          claimed[i].LockedBy,
				"publish_attempts":   gorm.Expr("publish_attempts + 1"),
				"last_publish_error": nil,
				"next_attempt_at":    nil,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		// Skip terminal rows that were marked DEAD in the claim transaction.
		if rec.PublishStatus == models.EffectPublishStatusDead {
			continue
		}
		if deliverErr := d.deliver(ctx, rec); deliverErr != nil {
			d.markDeliveryFailed(ctx, rec.ID, rec.BookingId, deliverErr, rec.PublishAttempts)
			continue
		}
		d.markDeliverySent(ctx, rec.ID, now)
	}
}

func (d *EffectDispatcher) deliver(ctx context.Context, rec models.EffectRecord) error {
	var payload EffectPayload
	if err := json.Unmarshal([]byte(rec.Payload), &payload); err != nil {
		return fmt.Errorf("unmarshal effect payload: %w", err)
	}

	switch rec.Kind {
	case models.EffectKindPush:
		if d.Push == nil {
			return fmt.Errorf("no push sink configured")
		}
		if err := d.Push.SendPush(ctx, payload.DeviceToken, payload.Title, payload.Message, payload.DeepLink); err != nil {
			return err
		}
	case models.EffectKindEmail:
		if d.Email == nil {
			return fmt.Errorf("no email sink configured")
		}
		if err := d.Email.SendEmail(ctx, payload.Email, payload.Subject, payload.Message); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown effect kind %q", rec.Kind)
	}

	// Optional mirror to Pub/Sub for downstream consumers. Best effort, never
	// fails the delivery.
	if config.EffectPubSubMirrorEnabled() {
		ev := config.EffectEvent{
			RecordId:      rec.ID,
			BookingId:     rec.BookingId,
			RiderId:       rec.RiderId,
			Kind:          string(rec.Kind),
			Status:        string(rec.Status),
			Payload:       []byte(rec.Payload),
			DispatchedAt:  time.Now().UTC(),
			CorrelationId: rec.CorrelationId,
		}
		if _, err := config.PublishEffectEventWithResult(ctx, rec.BookingId, ev); err != nil {
			config.LogError(d.Logger, "workflow", "deliver", "effect pubsub mirror failed", rec.ID, err)
		}
	}
	return nil
}

func (d *EffectDispatcher) markDeliverySent(ctx context.Context, recordID int, now time.Time) {
	db := d.DB.WithContext(ctx)
	_ = db.Model(&models.EffectRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":  models.EffectPublishStatusSent,
			"published_at":    &now,
			"locked_at":       nil,
			"locked_by":       nil,
			"next_attempt_at": nil,
		}).Error
}

func (d *EffectDispatcher) markDeliveryFailed(ctx context.Context, recordID int, bookingID string, err error, attempt int) {
	db := d.DB.WithContext(ctx)
	now := time.Now().UTC()
	msg := err.Error()

	// Terminal after MaxAttempts (DLQ equivalent).
	if d.MaxAttempts > 0 && attempt >= d.MaxAttempts {
		_ = db.Model(&models.EffectRecord{}).
			Where("id = ?", recordID).
			Updates(map[string]interface{}{
				"publish_status":     models.EffectPublishStatusDead,
				"last_publish_error": &msg,
				"next_attempt_at":    nil,
				"locked_at":          nil,
				"locked_by":          nil,
			}).Error

		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"field":      "EffectDispatcher",
				"booking_id": bookingID,
				"record_id":  recordID,
				"attempt":    attempt,
			}).Error("effect delivery moved to DEAD after max attempts: " + fmt.Sprintf("%v", err))
		}
		return
	}

	backoff := d.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > time.Minute*10 {
			backoff = time.Minute * 10
			break
		}
	}
	next := now.Add(backoff)
	_ = db.Model(&models.EffectRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":     models.EffectPublishStatusFailed,
			"last_publish_error": &msg,
			"next_attempt_at":    &next,
			"locked_at":          nil,
			"locked_by":          nil,
		}).Error

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"field":           "EffectDispatcher",
			"booking_id":      bookingID,
			"record_id":       recordID,
			"attempt":         attempt,
			"next_attempt_at": next.Format(time.RFC3339Nano),
		}).Error("effect delivery failed: " + fmt.Sprintf("%v", err))
	}
}

// LogPushSink and LogEmailSink are the default sinks for environments without
// provider credentials. They log the would-be delivery and succeed.
type LogPushSink struct {
	Logger *logrus.Logger
}

func (s *LogPushSink) SendPush(ctx context.Context, deviceToken, title, message, deepLink string) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"sink":      "push",
			"title":     title,
			"deep_link": deepLink,
		}).Info(message)
	}
	return nil
}

type LogEmailSink struct {
	Logger *logrus.Logger
}

func (s *LogEmailSink) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"sink":    "email",
			"to":      to,
			"subject": subject,
		}).Info(body)
	}
	return nil
}

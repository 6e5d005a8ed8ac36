package workflow

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine executes booking transition events. One instance serves all three
// verticals; the WorkflowDefinition passed per call selects the tables and
// rules.
type Engine struct {
	DB      *gorm.DB
	Logger  *logrus.Logger
	Locker  *redislock.Client
	Gateway PaymentGateway
}

func NewEngine(db *gorm.DB, logger *logrus.Logger, locker *redislock.Client, gateway PaymentGateway) *Engine {
	return &Engine{DB: db, Logger: logger, Locker: locker, Gateway: gateway}
}

// TransitionResult is the API-facing outcome of one event delivery. Duplicate
// deliveries come back Accepted with Duplicate set; nothing was re-executed.
type TransitionResult struct {
	Accepted  bool   `json:"accepted"`
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
}

// errDuplicateDelivery aborts the transaction so a racing delivery's partial
// writes roll back; mapped to a success no-op at the boundary.
var errDuplicateDelivery = errors.New("duplicate delivery")

// SubmitEvent runs the full transition pipeline for one event: validation,
// per-booking serialization, idempotency guard, assignment preconditions,
// adjacency check, history append, canonical status update, device sync and
// side-effect staging in a single transaction, then invoice reconciliation
// after commit when the vertical's completion status was reached.
//
// The returned error is non-nil only for internal failures; the result is
// always usable for the HTTP response.
func (e *Engine) SubmitEvent(ctx context.Context, def *WorkflowDefinition, ev *TransitionEvent) (*TransitionResult, error) {
	if err := ValidateEvent(def, ev); err != nil {
		return resultFromError(err), nil
	}

	// Best-effort cross-instance lock. Correctness rests on the history
	// table's unique key and the MySQL advisory lock; this only narrows the
	// duplicate-key window under concurrent delivery.
	if e.Locker != nil {
		if lock, err := e.Locker.Obtain(ctx, "lock:booking:"+ev.BookingId, 10*time.Second, nil); err == nil {
			defer lock.Release(context.Background())
		}
	}

	var booking models.BookingRow
	var rejected bool
	txErr := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireBookingPostingLock(tx, ev.BookingId); err != nil {
			return err
		}
		defer ReleaseBookingPostingLock(tx, ev.BookingId)

		if err := tx.Table(def.BookingTable).Where("booking_id = ?", ev.BookingId).Take(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// Guard first: a replayed event must short-circuit as a success
		// no-op before any precondition gets a chance to reject it.
		if seen, err := HasRecordedTransition(tx, def, ev.BookingId, ev.AgentId, ev.TargetStatus); err != nil {
			return err
		} else if seen {
			return errDuplicateDelivery
		}

		switch ev.TargetStatus {
		case models.StatusAssigned:
			if err := AcceptAssignment(tx, ev.BookingId, ev.AgentId); err != nil {
				return err
			}
		case models.StatusCancelled:
			// A pending offer is declined by cancelling; an agent who already
			// accepted cancels the booking itself.
			err := RejectAssignment(tx, ev.BookingId, ev.AgentId)
			switch {
			case err == nil:
				rejected = true
			case errors.Is(err, ErrAssignmentNotFound):
				accepted, aerr := HasAcceptedAssignment(tx, ev.BookingId, ev.AgentId)
				if aerr != nil {
					return aerr
				}
				if !accepted {
					return ErrAssignmentNotFound
				}
			default:
				return err
			}
		default:
			accepted, err := HasAcceptedAssignment(tx, ev.BookingId, ev.AgentId)
			if err != nil {
				return err
			}
			if !accepted {
				return ErrAssignmentNotFound
			}
		}

		if rejected {
			// A declined offer leaves the booking open for the remaining
			// agents: record the decline under the guard, alert ops, and
			// touch neither the booking nor the other pending offers.
			rec := buildTransitionRecord(booking.RiderId, ev)
			if dup, err := InsertTransitionOnce(tx, def, &rec); err != nil {
				return err
			} else if dup {
				return errDuplicateDelivery
			}
			effect, err := BuildRejectionEffect(def, &booking, ev)
			if err != nil {
				return err
			}
			if effect != nil {
				if err := tx.Create(effect).Error; err != nil {
					return err
				}
			}
			return nil
		}

		if !def.CanTransition(booking.Status, ev.TargetStatus) {
			return &IllegalTransitionError{From: string(booking.Status), To: string(ev.TargetStatus)}
		}

		rec := buildTransitionRecord(booking.RiderId, ev)
		if dup, err := InsertTransitionOnce(tx, def, &rec); err != nil {
			return err
		} else if dup {
			// Lost the race to a concurrent delivery of the same event; roll
			// back our writes and report the same success no-op.
			return errDuplicateDelivery
		}

		updates := map[string]interface{}{"status": ev.TargetStatus}
		if def.ChargingStartStatus != "" && ev.TargetStatus == def.ChargingStartStatus && ev.DeviceId != "" {
			updates["device_id"] = ev.DeviceId
		}
		res := tx.Table(def.BookingTable).Where("booking_id = ?", ev.BookingId).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNothingUpdated
		}

		if err := e.syncDevice(tx, def, &booking, ev, rec.BatterySnapshot); err != nil {
			return err
		}

		if def.IsTerminal(ev.TargetStatus) {
			if err := ClearAssignments(tx, ev.BookingId); err != nil {
				return err
			}
		}

		rider, err := LookupRider(tx, booking.RiderId)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Orphaned rider reference: record the transition, skip effects.
			e.Logger.WithFields(logrus.Fields{
				"booking_id": ev.BookingId,
				"rider_id":   booking.RiderId,
			}).Warn("rider not found, skipping side effects")
			return nil
		}
		noti, effects, err := BuildTransitionEffects(def, &booking, ev, rider)
		if err != nil {
			return err
		}
		if err := tx.Create(&noti).Error; err != nil {
			return err
		}
		if len(effects) > 0 {
			if err := tx.Create(&effects).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errDuplicateDelivery) {
			return &TransitionResult{Accepted: true, Duplicate: true, Message: "event already recorded", Code: http.StatusOK}, nil
		}
		result := resultFromError(txErr)
		if result.Code == http.StatusInternalServerError {
			config.LogError(e.Logger, "workflow", "SubmitEvent", "transition failed", ev, txErr)
			return result, txErr
		}
		return result, nil
	}

	if rejected {
		return &TransitionResult{Accepted: true, Message: "offer declined", Code: http.StatusOK}, nil
	}

	// Reconciliation runs after commit; its outcome never affects the
	// transition response.
	if ev.TargetStatus == def.CompletionStatus {
		booking.Status = ev.TargetStatus
		if _, err := e.ReconcileInvoice(ctx, def, &booking); err != nil {
			config.LogError(e.Logger, "workflow", "SubmitEvent", "invoice reconciliation failed", ev.BookingId, err)
		}
	}

	return &TransitionResult{Accepted: true, Message: def.StatusMessages[ev.TargetStatus], Code: http.StatusOK}, nil
}

// syncDevice toggles the device busy flag around the vertical's charging
// window. A missing device row is logged, not fatal.
func (e *Engine) syncDevice(tx *gorm.DB, def *WorkflowDefinition, booking *models.BookingRow, ev *TransitionEvent, battery *string) error {
	if def.ChargingStartStatus == "" {
		return nil
	}
	var deviceId string
	var busy bool
	switch ev.TargetStatus {
	case def.ChargingStartStatus:
		deviceId = ev.DeviceId
		busy = true
	case def.ChargingEndStatus:
		deviceId = ev.DeviceId
		if deviceId == "" && booking.DeviceId != nil {
			deviceId = *booking.DeviceId
		}
		busy = false
	default:
		return nil
	}
	if deviceId == "" {
		return nil
	}
	touched, err := SyncDeviceState(tx, deviceId, busy, ev, battery)
	if err != nil {
		return err
	}
	if !touched && e.Logger != nil {
		e.Logger.WithFields(logrus.Fields{
			"booking_id": ev.BookingId,
			"device_id":  deviceId,
		}).Warn("device sync skipped, device not found")
	}
	return nil
}

func buildTransitionRecord(riderId int, ev *TransitionEvent) models.TransitionRecord {
	rec := models.TransitionRecord{
		BookingId: ev.BookingId,
		AgentId:   ev.AgentId,
		Status:    ev.TargetStatus,
		RiderId:   riderId,
	}
	if ev.Latitude != nil {
		rec.Latitude = *ev.Latitude
	}
	if ev.Longitude != nil {
		rec.Longitude = *ev.Longitude
	}
	if len(ev.MediaRefs) > 0 {
		joined := strings.Join(ev.MediaRefs, ",")
		rec.MediaRefs = &joined
	}
	if len(ev.BatteryPercentages) > 0 {
		snap := utils.FormatBatterySnapshot(ev.BatteryPercentages)
		rec.BatterySnapshot = &snap
	}
	if ev.Reason != "" {
		rec.Reason = &ev.Reason
	}
	if ev.Remarks != "" {
		rec.Remarks = &ev.Remarks
	}
	return rec
}

func resultFromError(err error) *TransitionResult {
	var missing *MissingFieldError
	var illegal *IllegalTransitionError
	switch {
	case errors.Is(err, ErrAssignmentNotFound), errors.Is(err, ErrBookingNotFound):
		return &TransitionResult{Message: err.Error(), Code: http.StatusNotFound}
	case errors.Is(err, ErrMediaRequired):
		return &TransitionResult{Message: err.Error(), Code: http.StatusMethodNotAllowed}
	case errors.Is(err, ErrInvalidStatus), errors.As(err, &missing), errors.As(err, &illegal):
		return &TransitionResult{Message: err.Error(), Code: http.StatusUnprocessableEntity}
	default:
		return &TransitionResult{Message: "could not process event, please retry", Code: http.StatusInternalServerError}
	}
}

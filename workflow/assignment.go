package workflow

import (
	"bitbucket.org/voltride/fieldops_backend/models"
	"gorm.io/gorm"
)

// AcceptAssignment flips the agent's pending assignment row to accepted. The
// WHERE accepted = 0 clause is the compare-and-swap: once any agent holds the
// booking, every other acceptance attempt affects zero rows.
func AcceptAssignment(tx *gorm.DB, bookingId string, agentId int) error {
	res := tx.Model(&models.BookingAssignment{}).
		Where("booking_id = ? AND agent_id = ? AND accepted = 0", bookingId, agentId).
		Update("accepted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	// Drop the remaining pending offers for this booking.
	return tx.Where("booking_id = ? AND agent_id <> ?", bookingId, agentId).
		Delete(&models.BookingAssignment{}).Error
}

// RejectAssignment removes the agent's pending row. Zero rows affected means
// there was nothing to reject (never offered, or already accepted).
func RejectAssignment(tx *gorm.DB, bookingId string, agentId int) error {
	res := tx.Where("booking_id = ? AND agent_id = ? AND accepted = 0", bookingId, agentId).
		Delete(&models.BookingAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// HasAcceptedAssignment is the precondition for every post-acceptance
// transition.
func HasAcceptedAssignment(tx *gorm.DB, bookingId string, agentId int) (bool, error) {
	var n int64
	err := tx.Model(&models.BookingAssignment{}).
		Where("booking_id = ? AND agent_id = ? AND accepted = 1", bookingId, agentId).
		Count(&n).Error
	return n > 0, err
}

// ClearAssignments removes every assignment row once the booking reaches a
// terminal status.
func ClearAssignments(tx *gorm.DB, bookingId string) error {
	return tx.Where("booking_id = ?", bookingId).
		Delete(&models.BookingAssignment{}).Error
}

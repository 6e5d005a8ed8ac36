package workflow

import (
	"errors"

	"bitbucket.org/voltride/fieldops_backend/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// HasRecordedTransition reports whether the (booking, agent, status) triple
// already exists in the vertical's history table. This is the cheap pre-check
// that lets duplicate deliveries short-circuit before any precondition runs;
// InsertTransitionOnce stays the authoritative guard under races.
func HasRecordedTransition(tx *gorm.DB, def *WorkflowDefinition, bookingId string, agentId int, status models.BookingStatus) (bool, error) {
	var n int64
	err := tx.Table(def.HistoryTable).
		Where("booking_id = ? AND agent_id = ? AND status = ?", bookingId, agentId, status).
		Count(&n).Error
	return n > 0, err
}

// InsertTransitionOnce appends the history row. The unique key over
// (booking_id, agent_id, status) makes the insert itself the atomic
// check-and-set: a duplicate key means another delivery of the same event
// already won, and the caller must treat this one as a no-op.
func InsertTransitionOnce(tx *gorm.DB, def *WorkflowDefinition, rec *models.TransitionRecord) (duplicate bool, err error) {
	if err := tx.Table(def.HistoryTable).Create(rec).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

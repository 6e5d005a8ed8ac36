package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireBookingPostingLock serializes transition processing per booking
// across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that runs the transition transaction.
func AcquireBookingPostingLock(tx *gorm.DB, bookingId string) error {
	lockName := fmt.Sprintf("booking:%s", bookingId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire posting lock for booking_id=%s", bookingId)
	}
	return nil
}

func ReleaseBookingPostingLock(tx *gorm.DB, bookingId string) {
	lockName := fmt.Sprintf("booking:%s", bookingId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

package workflow

import (
	"bitbucket.org/voltride/fieldops_backend/models"
	"gorm.io/gorm"
)

// SyncDeviceState flips the device's busy flag and refreshes its last-known
// location and battery snapshot. Telemetry is last-writer-wins; returns
// whether a device row was actually touched so the caller can log a missing
// device without failing the transition.
func SyncDeviceState(tx *gorm.DB, deviceId string, busy bool, ev *TransitionEvent, batterySnapshot *string) (bool, error) {
	updates := map[string]interface{}{"busy": busy}
	if ev.Latitude != nil {
		updates["latitude"] = *ev.Latitude
	}
	if ev.Longitude != nil {
		updates["longitude"] = *ev.Longitude
	}
	if batterySnapshot != nil {
		updates["battery_snapshot"] = batterySnapshot
	}
	res := tx.Model(&models.ChargerDevice{}).
		Where("device_id = ?", deviceId).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

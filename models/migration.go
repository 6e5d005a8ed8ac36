package models

import (
	"log"

	"bitbucket.org/voltride/fieldops_backend/config"
)

// HistoryTables lists the per-vertical transition history tables. They share
// the TransitionRecord schema but live in separate tables so each carries its
// own (booking_id, agent_id, status) unique index.
var HistoryTables = []string{
	"roadside_assistance_histories",
	"portable_charger_booking_histories",
	"charging_service_histories",
}

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&RoadsideAssistance{}, &PortableChargerBooking{}, &ChargingService{},
		&BookingAssignment{},
		&ChargerDevice{},
		&BookingInvoice{},
		&Coupon{}, &CouponRedemption{},
		&Rider{}, &Agent{},
		&Notification{},
		&EffectRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, table := range HistoryTables {
		if err := db.Table(table).AutoMigrate(&TransitionRecord{}); err != nil {
			log.Fatal(err)
		}
	}
}

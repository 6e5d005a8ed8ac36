// seed-demo provisions a local development dataset: one agent, two riders,
// two charger devices, a coupon per vertical and one open booking per
// vertical with a pending assignment for the agent.
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"fmt"
	"os"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	agentPhone = "+971501234567"
	agentPin   = "4321"
)

func main() {
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	pinHash, err := utils.HashPin(agentPin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash pin: %v\n", err)
		os.Exit(1)
	}

	agent := models.Agent{Name: "Demo Agent", Phone: agentPhone, PinHash: string(pinHash), Active: true}
	if err := upsert(db, &agent, "phone", agentPhone); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed agent: %v\n", err)
		os.Exit(1)
	}

	token := "demo-device-token"
	riders := []models.Rider{
		{Name: "Aisha", Email: "aisha@example.com", Phone: "+971502222333", DeviceToken: &token},
		{Name: "Omar", Email: "omar@example.com", Phone: "+971503333444"},
	}
	for i := range riders {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&riders[i]).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed rider: %v\n", err)
			os.Exit(1)
		}
	}

	devices := []models.ChargerDevice{
		{DeviceId: "POD-001", Latitude: 25.2048, Longitude: 55.2708},
		{DeviceId: "POD-002", Latitude: 25.0805, Longitude: 55.1403},
	}
	for i := range devices {
		if err := upsert(db, &devices[i], "device_id", devices[i].DeviceId); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed device: %v\n", err)
			os.Exit(1)
		}
	}

	expiry := time.Now().AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{Code: "RSA20", Discount: decimal.NewFromInt(20), Vertical: models.VerticalRoadsideAssistance, Active: true, ExpiryDate: expiry, PerUserLimit: 3},
		{Code: "PODFREE", Discount: decimal.NewFromInt(100), Vertical: models.VerticalPortableCharger, Active: true, ExpiryDate: expiry, PerUserLimit: 1},
		{Code: "VALET10", Discount: decimal.NewFromInt(10), Vertical: models.VerticalChargingService, Active: true, ExpiryDate: expiry, PerUserLimit: 5},
	}
	for i := range coupons {
		if err := upsert(db, &coupons[i], "code", coupons[i].Code); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed coupon: %v\n", err)
			os.Exit(1)
		}
	}

	amount := decimal.NewFromInt(200)
	vat := decimal.NewFromInt(10)
	bookings := []struct {
		table     string
		bookingId string
		vertical  models.Vertical
	}{
		{"roadside_assistances", "RSA1001", models.VerticalRoadsideAssistance},
		{"portable_charger_bookings", "PCB1001", models.VerticalPortableCharger},
		{"charging_services", "CSB1001", models.VerticalChargingService},
	}
	for _, b := range bookings {
		row := models.RoadsideAssistance{
			BookingId: b.bookingId,
			RiderId:   riders[0].ID,
			Status:    models.StatusCreated,
			Vat:       vat,
			Total:     amount,
		}
		if err := db.Table(b.table).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed booking %s: %v\n", b.bookingId, err)
			os.Exit(1)
		}
		assignment := models.BookingAssignment{BookingId: b.bookingId, AgentId: agent.ID, Vertical: b.vertical}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed assignment for %s: %v\n", b.bookingId, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded demo data: agent %s (pin %s), bookings RSA1001 / PCB1001 / CSB1001\n", agentPhone, agentPin)
}

func upsert(db *gorm.DB, record interface{}, column, value string) error {
	res := db.Where(column+" = ?", value).FirstOrCreate(record)
	return res.Error
}

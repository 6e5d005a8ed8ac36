package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoadsideAssistance is a mobile charging van dispatched to a stranded
// vehicle. Booking ids carry the RSA prefix (e.g. RSA1042).
type RoadsideAssistance struct {
	ID               int           `gorm:"primary_key" json:"id"`
	BookingId        string        `gorm:"size:32;not null;unique" json:"booking_id"`
	RiderId          int           `gorm:"not null;index" json:"rider_id"`
	Status           BookingStatus `gorm:"size:4;not null;index" json:"status"`
	PaymentIntentRef *string       `gorm:"size:255" json:"payment_intent_ref"`
	DeviceId         *string       `gorm:"size:64" json:"device_id"`
	CouponCode       *string       `gorm:"size:32" json:"coupon_code"`
	Discount         decimal.Decimal `gorm:"type:decimal(13,2)" json:"discount"`
	Vat              decimal.Decimal `gorm:"type:decimal(13,2)" json:"vat"`
	Total            decimal.Decimal `gorm:"type:decimal(13,2)" json:"total"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// PortableChargerBooking is a delivery/pickup booking for a portable
// charging pod (PCB prefix).
type PortableChargerBooking struct {
	ID               int           `gorm:"primary_key" json:"id"`
	BookingId        string        `gorm:"size:32;not null;unique" json:"booking_id"`
	RiderId          int           `gorm:"not null;index" json:"rider_id"`
	Status           BookingStatus `gorm:"size:4;not null;index" json:"status"`
	PaymentIntentRef *string       `gorm:"size:255" json:"payment_intent_ref"`
	DeviceId         *string       `gorm:"size:64" json:"device_id"`
	CouponCode       *string       `gorm:"size:32" json:"coupon_code"`
	Discount         decimal.Decimal `gorm:"type:decimal(13,2)" json:"discount"`
	Vat              decimal.Decimal `gorm:"type:decimal(13,2)" json:"vat"`
	Total            decimal.Decimal `gorm:"type:decimal(13,2)" json:"total"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChargingService is a valet pick-up/drop-off charging booking (CSB prefix).
type ChargingService struct {
	ID               int           `gorm:"primary_key" json:"id"`
	BookingId        string        `gorm:"size:32;not null;unique" json:"booking_id"`
	RiderId          int           `gorm:"not null;index" json:"rider_id"`
	Status           BookingStatus `gorm:"size:4;not null;index" json:"status"`
	PaymentIntentRef *string       `gorm:"size:255" json:"payment_intent_ref"`
	DeviceId         *string       `gorm:"size:64" json:"device_id"`
	CouponCode       *string       `gorm:"size:32" json:"coupon_code"`
	Discount         decimal.Decimal `gorm:"type:decimal(13,2)" json:"discount"`
	Vat              decimal.Decimal `gorm:"type:decimal(13,2)" json:"vat"`
	Total            decimal.Decimal `gorm:"type:decimal(13,2)" json:"total"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// BookingRow is the vertical-agnostic projection the transition engine works
// with. All three booking tables share these columns, so one row type can be
// scanned from any of them via Table(def.BookingTable).
type BookingRow struct {
	ID               int           `json:"id"`
	BookingId        string        `json:"booking_id"`
	RiderId          int           `json:"rider_id"`
	Status           BookingStatus `json:"status"`
	PaymentIntentRef *string       `json:"payment_intent_ref"`
	DeviceId         *string       `json:"device_id"`
	Total            decimal.Decimal `json:"total"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a percentage discount scoped to one vertical. Discount is a
// percentage (100 means free booking, which switches the pricing engine to
// its VAT-first mode).
type Coupon struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Code         string          `gorm:"size:32;not null;unique" json:"code"`
	Discount     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount"`
	Vertical     Vertical        `gorm:"size:4;not null" json:"vertical"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	ExpiryDate   time.Time       `gorm:"not null" json:"expiry_date"`
	PerUserLimit int             `gorm:"not null;default:1" json:"per_user_limit"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// CouponRedemption records one use of a coupon by a rider. Per-rider usage
// counts are taken from this table at validation time.
type CouponRedemption struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CouponId  int       `gorm:"not null;index" json:"coupon_id"`
	RiderId   int       `gorm:"not null;index" json:"rider_id"`
	BookingId string    `gorm:"size:32;not null" json:"booking_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

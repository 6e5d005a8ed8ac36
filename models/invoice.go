package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingInvoice is the normalized receipt persisted when a booking reaches
// its completion status. Invoice ids derive deterministically from the
// booking id (vertical prefix swapped for the invoice prefix, e.g.
// PCB123 -> INVPC123); the unique index makes reconciliation idempotent.
type BookingInvoice struct {
	ID                int             `gorm:"primary_key" json:"id"`
	InvoiceId         string          `gorm:"size:40;not null;unique" json:"invoice_id"`
	BookingId         string          `gorm:"size:32;not null;unique" json:"booking_id"`
	RiderId           int             `gorm:"not null;index" json:"rider_id"`
	PaymentIntentRef  *string         `gorm:"size:255" json:"payment_intent_ref"`
	Amount            decimal.Decimal `gorm:"type:decimal(13,2)" json:"amount"`
	Currency          string          `gorm:"size:8" json:"currency"`
	CardBrand         *string         `gorm:"size:32" json:"card_brand"`
	CardCountry       *string         `gorm:"size:8" json:"card_country"`
	CardLast4         *string         `gorm:"size:8" json:"card_last4"`
	CardExpMonth      *int            `json:"card_exp_month"`
	CardExpYear       *int            `json:"card_exp_year"`
	GatewayChargeId   *string         `gorm:"size:255" json:"gateway_charge_id"`
	ThreeDSecureTxnId *string         `gorm:"size:255" json:"three_d_secure_txn_id"`
	ReceiptUrl        *string         `gorm:"size:512" json:"receipt_url"`
	CapturedAt        *time.Time      `json:"captured_at"`
	PaymentStatus     PaymentStatus   `gorm:"size:16;not null" json:"payment_status"`
	InvoiceDate       time.Time       `gorm:"not null" json:"invoice_date"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/shopspring/decimal"
)

// ChargeDetails is the normalized gateway view of one authorized payment.
type ChargeDetails struct {
	ChargeId          string
	Amount            decimal.Decimal
	Currency          string
	CardBrand         string
	CardCountry       string
	CardLast4         string
	CardExpMonth      int
	CardExpYear       int
	ThreeDSecureTxnId string
	ReceiptUrl        string
	CapturedAt        *time.Time
}

// PaymentGateway retrieves the charge behind a payment authorization
// reference. The engine depends only on this interface; the Stripe adapter
// lives in the payments package.
type PaymentGateway interface {
	RetrieveAuthorization(ctx context.Context, ref string) (*ChargeDetails, error)
}

// DeriveInvoiceId maps a booking id to its invoice id by swapping the
// vertical's booking prefix for its invoice prefix (PCB123 -> INVPC123).
// Same booking always yields the same invoice id, which is what makes
// re-delivered completion events collide on the unique index instead of
// double-billing.
func DeriveInvoiceId(def *WorkflowDefinition, bookingId string) string {
	return def.InvoicePrefix + strings.TrimPrefix(bookingId, def.BookingPrefix)
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtrOrNil(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// BuildInvoiceRecord normalizes a reconciliation outcome into the invoice
// row. charge == nil with lookupErr == nil is the no-payment-reference case:
// the invoice closes Approved with null charge fields. A non-nil lookupErr
// records the invoice as Incomplete so ops can replay the lookup later.
func BuildInvoiceRecord(def *WorkflowDefinition, booking *models.BookingRow, charge *ChargeDetails, lookupErr error, now time.Time) models.BookingInvoice {
	inv := models.BookingInvoice{
		InvoiceId:        DeriveInvoiceId(def, booking.BookingId),
		BookingId:        booking.BookingId,
		RiderId:          booking.RiderId,
		PaymentIntentRef: booking.PaymentIntentRef,
		Amount:           booking.Total,
		Currency:         "AED",
		PaymentStatus:    models.PaymentStatusApproved,
		InvoiceDate:      now,
	}
	if lookupErr != nil {
		inv.PaymentStatus = models.PaymentStatusIncomplete
		return inv
	}
	if charge == nil {
		return inv
	}
	if !charge.Amount.IsZero() {
		inv.Amount = charge.Amount
	}
	if charge.Currency != "" {
		inv.Currency = strings.ToUpper(charge.Currency)
	}
	inv.CardBrand = strPtrOrNil(charge.CardBrand)
	inv.CardCountry = strPtrOrNil(charge.CardCountry)
	inv.CardLast4 = strPtrOrNil(charge.CardLast4)
	inv.CardExpMonth = intPtrOrNil(charge.CardExpMonth)
	inv.CardExpYear = intPtrOrNil(charge.CardExpYear)
	inv.GatewayChargeId = strPtrOrNil(charge.ChargeId)
	inv.ThreeDSecureTxnId = strPtrOrNil(charge.ThreeDSecureTxnId)
	inv.ReceiptUrl = strPtrOrNil(charge.ReceiptUrl)
	inv.CapturedAt = charge.CapturedAt
	inv.PaymentStatus = models.PaymentStatusPaid
	return inv
}

// ReconcileInvoice runs after a completion transition commits. Gateway
// failures degrade to an Incomplete invoice; a duplicate key means another
// delivery already reconciled this booking. Neither outcome is an error to
// the transition that triggered it.
func (e *Engine) ReconcileInvoice(ctx context.Context, def *WorkflowDefinition, booking *models.BookingRow) (created bool, err error) {
	now := time.Now().UTC()

	var charge *ChargeDetails
	var lookupErr error
	if booking.PaymentIntentRef != nil && *booking.PaymentIntentRef != "" {
		if e.Gateway == nil {
			lookupErr = errors.New("payment gateway not configured")
		} else {
			charge, lookupErr = e.Gateway.RetrieveAuthorization(ctx, *booking.PaymentIntentRef)
		}
		if lookupErr != nil {
			config.LogError(e.Logger, "workflow", "ReconcileInvoice", "gateway lookup failed", booking.BookingId, lookupErr)
		}
	}

	inv := BuildInvoiceRecord(def, booking, charge, lookupErr, now)
	if err := e.DB.WithContext(ctx).Create(&inv).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

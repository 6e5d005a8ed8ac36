package workflow

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/shopspring/decimal"
)

func TestDeriveInvoiceId(t *testing.T) {
	cases := []struct {
		vertical  models.Vertical
		bookingId string
		want      string
	}{
		{models.VerticalRoadsideAssistance, "RSA123", "INVRS123"},
		{models.VerticalPortableCharger, "PCB123", "INVPC123"},
		{models.VerticalChargingService, "CSB9001", "INVCS9001"},
	}
	for _, c := range cases {
		def, _ := DefinitionFor(c.vertical)
		if got := DeriveInvoiceId(def, c.bookingId); got != c.want {
			t.Errorf("%s: expected %s, got %s", c.bookingId, c.want, got)
		}
		// Determinism: same input, same id.
		if got := DeriveInvoiceId(def, c.bookingId); got != c.want {
			t.Errorf("%s: second derivation differs: %s", c.bookingId, got)
		}
	}
}

func TestBuildInvoiceRecord_NoPaymentRef(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalPortableCharger)
	booking := &models.BookingRow{
		BookingId: "PCB123",
		RiderId:   9,
		Total:     decimal.NewFromInt(210),
	}

	inv := BuildInvoiceRecord(def, booking, nil, nil, time.Now().UTC())

	if inv.InvoiceId != "INVPC123" {
		t.Fatalf("invoice id: got %s", inv.InvoiceId)
	}
	if inv.PaymentStatus != models.PaymentStatusApproved {
		t.Fatalf("expected Approved, got %s", inv.PaymentStatus)
	}
	if inv.CardBrand != nil || inv.GatewayChargeId != nil || inv.CapturedAt != nil {
		t.Fatal("expected charge fields to stay null without a payment ref")
	}
	if !inv.Amount.Equal(decimal.NewFromInt(210)) {
		t.Fatalf("expected booking total as amount, got %s", inv.Amount)
	}
}

func TestBuildInvoiceRecord_GatewayLookupFailure(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)
	ref := "pi_123"
	booking := &models.BookingRow{
		BookingId:        "RSA55",
		RiderId:          4,
		PaymentIntentRef: &ref,
		Total:            decimal.NewFromInt(840),
	}

	inv := BuildInvoiceRecord(def, booking, nil, errors.New("gateway timeout"), time.Now().UTC())

	if inv.PaymentStatus != models.PaymentStatusIncomplete {
		t.Fatalf("expected Incomplete, got %s", inv.PaymentStatus)
	}
	if inv.InvoiceId != "INVRS55" {
		t.Fatalf("invoice id: got %s", inv.InvoiceId)
	}
	if inv.PaymentIntentRef == nil || *inv.PaymentIntentRef != ref {
		t.Fatal("expected payment ref to be preserved")
	}
}

func TestBuildInvoiceRecord_RetrievedCharge(t *testing.T) {
	def, _ := DefinitionFor(models.VerticalChargingService)
	ref := "pi_456"
	captured := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := &models.BookingRow{
		BookingId:        "CSB77",
		RiderId:          2,
		PaymentIntentRef: &ref,
		Total:            decimal.NewFromInt(300),
	}
	charge := &ChargeDetails{
		ChargeId:          "ch_789",
		Amount:            decimal.NewFromInt(315),
		Currency:          "aed",
		CardBrand:         "visa",
		CardCountry:       "AE",
		CardLast4:         "4242",
		CardExpMonth:      11,
		CardExpYear:       2027,
		ThreeDSecureTxnId: "3ds_abc123",
		ReceiptUrl:        "https://pay.example.com/r/789",
		CapturedAt:        &captured,
	}

	inv := BuildInvoiceRecord(def, booking, charge, nil, time.Now().UTC())

	if inv.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("expected Paid, got %s", inv.PaymentStatus)
	}
	if !inv.Amount.Equal(decimal.NewFromInt(315)) {
		t.Fatalf("expected charge amount to win, got %s", inv.Amount)
	}
	if inv.Currency != "AED" {
		t.Fatalf("expected normalized currency AED, got %s", inv.Currency)
	}
	if inv.CardBrand == nil || *inv.CardBrand != "visa" {
		t.Fatal("expected card brand visa")
	}
	if inv.CardExpMonth == nil || *inv.CardExpMonth != 11 {
		t.Fatal("expected card exp month 11")
	}
	if inv.GatewayChargeId == nil || *inv.GatewayChargeId != "ch_789" {
		t.Fatal("expected gateway charge id")
	}
	if inv.ThreeDSecureTxnId == nil || *inv.ThreeDSecureTxnId != "3ds_abc123" {
		t.Fatal("expected 3-D-Secure transaction id")
	}
	if inv.CapturedAt == nil || !inv.CapturedAt.Equal(captured) {
		t.Fatal("expected captured timestamp")
	}
}

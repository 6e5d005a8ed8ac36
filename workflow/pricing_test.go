package workflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPrice_DiscountFirst(t *testing.T) {
	got := Price(dec("1000"), dec("20"))

	if !got.Discount.Equal(dec("200")) {
		t.Fatalf("discount: expected 200, got %s", got.Discount)
	}
	if !got.Vat.Equal(dec("40")) {
		t.Fatalf("vat: expected 40, got %s", got.Vat)
	}
	if !got.Total.Equal(dec("840")) {
		t.Fatalf("total: expected 840, got %s", got.Total)
	}
}

func TestPrice_FullDiscountChargesVatFirst(t *testing.T) {
	got := Price(dec("1000"), dec("100"))

	// VAT is computed on the undiscounted amount, then the discount wipes the
	// VAT-inclusive total.
	if !got.Vat.Equal(dec("50")) {
		t.Fatalf("vat: expected 50, got %s", got.Vat)
	}
	if !got.Discount.Equal(dec("1050")) {
		t.Fatalf("discount: expected 1050, got %s", got.Discount)
	}
	if !got.Total.IsZero() {
		t.Fatalf("total: expected 0, got %s", got.Total)
	}
}

func TestPrice_NoDiscount(t *testing.T) {
	got := Price(dec("200"), decimal.Zero)

	if !got.Discount.IsZero() {
		t.Fatalf("discount: expected 0, got %s", got.Discount)
	}
	if !got.Vat.Equal(dec("10")) {
		t.Fatalf("vat: expected 10, got %s", got.Vat)
	}
	if !got.Total.Equal(dec("210")) {
		t.Fatalf("total: expected 210, got %s", got.Total)
	}
}

func TestVatOn_RoundsHalfAwayAtIntegerStep(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000", "50"},
		{"800", "40"},
		{"800.10", "40.01"},   // 4000.5 rounds up
		{"799.99", "40"},      // 3999.95 rounds to 4000
		{"0", "0"},
	}
	for _, c := range cases {
		if got := vatOn(dec(c.in)); !got.Equal(dec(c.want)) {
			t.Errorf("vatOn(%s): expected %s, got %s", c.in, c.want, got)
		}
	}
}

func TestCouponExpiry_DayGranularity(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)

	// Expiring today at midnight is still valid all day.
	sameDay := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if dateOnly(sameDay).Before(dateOnly(now)) {
		t.Fatal("coupon expiring today must still be valid")
	}

	yesterday := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
	if !dateOnly(yesterday).Before(dateOnly(now)) {
		t.Fatal("coupon that expired yesterday must be rejected")
	}
}

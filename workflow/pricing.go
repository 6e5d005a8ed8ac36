package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponInactive      = errors.New("coupon inactive")
	ErrCouponWrongVertical = errors.New("coupon not valid for this service")
	ErrCouponLimitReached  = errors.New("coupon usage limit reached")
)

var (
	five    = decimal.NewFromInt(5)
	hundred = decimal.NewFromInt(100)
)

// PricingBreakdown is a priced booking: the discount and VAT amounts plus the
// final total the rider pays.
type PricingBreakdown struct {
	Discount decimal.Decimal `json:"discount"`
	Vat      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
}

// vatOn applies the 5% VAT rule as round(x*5)/100, rounding half away from
// zero at the integer step so the result carries at most two decimals.
func vatOn(x decimal.Decimal) decimal.Decimal {
	return x.Mul(five).Round(0).Div(hundred)
}

// Price computes the charge for a base amount under a percentage discount.
//
// Below 100 the discount applies to the base amount first and VAT is charged
// on the discounted remainder. At 100 (free booking) VAT is computed on the
// full base amount first and the discount wipes the VAT-inclusive total, so
// the rider pays exactly zero.
func Price(amount, discountPercent decimal.Decimal) PricingBreakdown {
	if discountPercent.GreaterThanOrEqual(hundred) {
		vat := vatOn(amount)
		preTotal := amount.Add(vat)
		return PricingBreakdown{Discount: preTotal, Vat: vat, Total: decimal.Zero}
	}
	discount := amount.Mul(discountPercent).DivRound(hundred, 2)
	discounted := amount.Sub(discount)
	vat := vatOn(discounted)
	return PricingBreakdown{Discount: discount, Vat: vat, Total: discounted.Add(vat)}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateCoupon runs the rejection chain in its fixed order: existence,
// expiry (day granularity, the coupon stays valid through its expiry date),
// active flag, vertical match, per-rider usage limit.
func ValidateCoupon(tx *gorm.DB, code string, riderId int, vertical models.Vertical, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	if dateOnly(coupon.ExpiryDate).Before(dateOnly(now)) {
		return nil, ErrCouponExpired
	}
	if !coupon.Active {
		return nil, ErrCouponInactive
	}
	if coupon.Vertical != vertical {
		return nil, ErrCouponWrongVertical
	}
	var used int64
	if err := tx.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND rider_id = ?", coupon.ID, riderId).
		Count(&used).Error; err != nil {
		return nil, err
	}
	if coupon.PerUserLimit > 0 && used >= int64(coupon.PerUserLimit) {
		return nil, ErrCouponLimitReached
	}
	return &coupon, nil
}

// ApplyCoupon validates and prices in one call; this is what the pricing
// endpoint runs at booking creation time.
func ApplyCoupon(ctx context.Context, db *gorm.DB, code string, riderId int, amount decimal.Decimal, vertical models.Vertical) (*PricingBreakdown, *models.Coupon, error) {
	coupon, err := ValidateCoupon(db.WithContext(ctx), code, riderId, vertical, time.Now())
	if err != nil {
		return nil, nil, err
	}
	breakdown := Price(amount, coupon.Discount)
	return &breakdown, coupon, nil
}

// RecordRedemption charges one use against the rider's limit; called when a
// priced booking is actually created.
func RecordRedemption(tx *gorm.DB, coupon *models.Coupon, riderId int, bookingId string) error {
	return tx.Create(&models.CouponRedemption{
		CouponId:  coupon.ID,
		RiderId:   riderId,
		BookingId: bookingId,
	}).Error
}

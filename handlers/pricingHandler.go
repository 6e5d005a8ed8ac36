package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type applyCouponRequest struct {
	CouponCode string          `json:"coupon_code" binding:"required"`
	RiderId    int             `json:"rider_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Vertical   string          `json:"vertical" binding:"required"`
}

// ApplyCoupon prices a booking under a coupon. Rejections come back 422 with
// the reason; an unknown coupon is 404.
func ApplyCoupon(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := config.GetDB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
			return
		}

		var req applyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		vertical := models.Vertical(req.Vertical)
		if !vertical.IsValid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown vertical"})
			return
		}
		if req.Amount.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount must not be negative"})
			return
		}

		breakdown, _, err := workflow.ApplyCoupon(c.Request.Context(), db, req.CouponCode, req.RiderId, req.Amount, vertical)
		if err != nil {
			switch {
			case errors.Is(err, workflow.ErrCouponNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, workflow.ErrCouponExpired),
				errors.Is(err, workflow.ErrCouponInactive),
				errors.Is(err, workflow.ErrCouponWrongVertical),
				errors.Is(err, workflow.ErrCouponLimitReached):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				config.LogError(logger, "handlers", "ApplyCoupon", "coupon pricing failed", req, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "pricing failed"})
			}
			return
		}
		c.JSON(http.StatusOK, breakdown)
	}
}

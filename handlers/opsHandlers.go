package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExportInvoices streams the invoice register as XLSX. Optional from/to query
// params (YYYY-MM-DD) bound the invoice date.
func ExportInvoices(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := config.GetDB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
			return
		}
		q := db.WithContext(c.Request.Context()).Model(&models.BookingInvoice{}).Order("invoice_date ASC")
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid from date"})
				return
			}
			q = q.Where("invoice_date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid to date"})
				return
			}
			q = q.Where("invoice_date < ?", t.AddDate(0, 0, 1))
		}

		var invoices []models.BookingInvoice
		if err := q.Find(&invoices).Error; err != nil {
			config.LogError(logger, "handlers", "ExportInvoices", "invoice query failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		f, err := utils.BuildInvoiceExport(invoices)
		if err != nil {
			config.LogError(logger, "handlers", "ExportInvoices", "workbook build failed", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		filename := utils.InvoiceExportFilename(time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			config.LogError(logger, "handlers", "ExportInvoices", "workbook write failed", nil, err)
		}
	}
}

type replayEffectRequest struct {
	RecordId int `json:"record_id" binding:"required"`
}

// ReplayEffect resets a DEAD or FAILED outbox row so the dispatcher picks it
// up again on its next poll.
func ReplayEffect(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := config.GetDB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
			return
		}

		var req replayEffectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}

		res := db.WithContext(c.Request.Context()).
			Model(&models.EffectRecord{}).
			Where("id = ? AND publish_status IN ?", req.RecordId,
				[]string{models.EffectPublishStatusDead, models.EffectPublishStatusFailed}).
			Updates(map[string]interface{}{
				"publish_status":     models.EffectPublishStatusPending,
				"publish_attempts":   0,
				"last_publish_error": nil,
				"next_attempt_at":    nil,
				"locked_at":          nil,
				"locked_by":          nil,
			})
		if res.Error != nil {
			config.LogError(logger, "handlers", "ReplayEffect", "reset failed", req.RecordId, res.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no dead or failed effect with that id"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"replayed": req.RecordId})
	}
}

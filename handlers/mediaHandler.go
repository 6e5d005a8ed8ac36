package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type signMediaUploadRequest struct {
	BookingId   string `json:"booking_id" binding:"required"`
	ContentType string `json:"content_type"`
}

// SignMediaUpload hands the agent a signed PUT for a transition photo. The
// returned object key is what goes into the event's media_refs.
func SignMediaUpload(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		def, ok := workflow.DefinitionForSlug(c.Param("vertical"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown vertical"})
			return
		}
		var req signMediaUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		contentType := req.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}

		objectKey := utils.MediaObjectKey(def.Slug, req.BookingId)
		signed, err := utils.SignMediaUpload(c.Request.Context(), objectKey, contentType, 15*time.Minute)
		if err != nil {
			config.LogError(logger, "handlers", "SignMediaUpload", "signing failed", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign upload"})
			return
		}
		c.JSON(http.StatusOK, signed)
	}
}

// ResolveMediaRef exchanges a stored media ref (object key off a transition
// history row) for a time-limited view URL. The bucket stays private.
func ResolveMediaRef(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "key is required"})
			return
		}
		url, err := utils.SignMediaAccess(c.Request.Context(), key, 15*time.Minute)
		if err != nil {
			config.LogError(logger, "handlers", "ResolveMediaRef", "signing failed", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign access"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

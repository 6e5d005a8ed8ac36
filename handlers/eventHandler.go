package handlers

import (
	"net/http"

	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/gin-gonic/gin"
)

type transitionEventRequest struct {
	BookingId          string    `json:"booking_id" binding:"required"`
	AgentId            int       `json:"agent_id"`
	TargetStatus       string    `json:"target_status" binding:"required"`
	Latitude           *float64  `json:"latitude"`
	Longitude          *float64  `json:"longitude"`
	Reason             string    `json:"reason"`
	DeviceId           string    `json:"device_id"`
	MediaRefs          []string  `json:"media_refs"`
	BatteryPercentages []float64 `json:"battery_percentages"`
	Remarks            string    `json:"remarks"`
}

// SubmitBookingEvent is the status-agnostic event input: one endpoint and one
// payload shape for every lifecycle transition of every vertical.
func SubmitBookingEvent(engine *workflow.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		def, ok := workflow.DefinitionForSlug(c.Param("vertical"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown vertical"})
			return
		}

		var req transitionEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}

		// The authenticated agent wins over whatever the payload claims.
		agentId, _ := utils.GetAgentIdFromContext(c.Request.Context())
		if agentId == 0 {
			agentId = req.AgentId
		}
		agentName, _ := utils.GetAgentNameFromContext(c.Request.Context())
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())

		ev := &workflow.TransitionEvent{
			BookingId:          req.BookingId,
			AgentId:            agentId,
			AgentName:          agentName,
			TargetStatus:       models.BookingStatus(req.TargetStatus),
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			Reason:             req.Reason,
			DeviceId:           req.DeviceId,
			MediaRefs:          req.MediaRefs,
			BatteryPercentages: req.BatteryPercentages,
			Remarks:            req.Remarks,
			CorrelationId:      correlationId,
		}

		result, _ := engine.SubmitEvent(c.Request.Context(), def, ev)
		if result == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process event"})
			return
		}
		c.JSON(result.Code, result)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/models"
	"bitbucket.org/voltride/fieldops_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type agentLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Pin   string `json:"pin" binding:"required"`
}

// AgentLogin exchanges an agent's phone + PIN for a bearer token.
func AgentLogin(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := config.GetDB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
			return
		}

		var req agentLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}

		phone, err := utils.NormalizePhone(req.Phone, utils.CountryCode)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid phone number"})
			return
		}

		var agent models.Agent
		if err := db.WithContext(c.Request.Context()).Where("phone = ?", phone).First(&agent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			config.LogError(logger, "handlers", "AgentLogin", "agent lookup failed", phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		if !agent.Active || utils.ComparePin(agent.PinHash, req.Pin) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.JwtGenerate(agent.ID, agent.Name, "agent")
		if err != nil {
			config.LogError(logger, "handlers", "AgentLogin", "token generation failed", agent.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "agent_id": agent.ID, "name": agent.Name})
	}
}

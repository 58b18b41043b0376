package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"gorm.io/gorm"
)

type RegisterFCMTokenInput struct {
	Token string `json:"token" binding:"required"`
}

// RegisterFCMToken stores the device token for push delivery. One token per
// user; a fresh registration replaces the old device.
func RegisterFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input RegisterFCMTokenInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if result := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", input.Token); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to register token"})
			return
		}

		// Admin devices also get the shared new-booking topic
		if c.GetString("userType") == string(models.UserTypeAdmin) {
			if err := services.SubscribeToTopic(c.Request.Context(), []string{input.Token}, "admin-bookings"); err != nil {
				log.Printf("Failed to subscribe admin token to topic: %v", err)
			}
		}

		c.JSON(200, gin.H{"message": "Token registered successfully"})
	}
}

// RemoveFCMToken clears the device token, typically on logout.
func RemoveFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if result := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", ""); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to remove token"})
			return
		}

		c.JSON(200, gin.H{"message": "Token removed successfully"})
	}
}

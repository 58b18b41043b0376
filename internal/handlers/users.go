package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"gorm.io/gorm"
)

// GetProfile returns the authenticated user's profile.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"firstName":  user.FirstName,
			"lastName":   user.LastName,
			"fullName":   user.FullName(),
			"contactNum": user.ContactNum,
			"userType":   user.UserType,
			"isVerified": user.IsVerified,
		})
	}
}

type UpdateProfileInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	ContactNum string `json:"contactNum"`
}

// UpdateProfile updates the editable profile fields. Email and user type are
// immutable here.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.FirstName != "" {
			updates["first_name"] = input.FirstName
		}
		if input.LastName != "" {
			updates["last_name"] = input.LastName
		}
		if input.ContactNum != "" {
			updates["contact_num"] = input.ContactNum
		}

		if len(updates) > 0 {
			if result := db.Model(&user).Updates(updates); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
		}

		c.JSON(200, gin.H{
			"message": "Profile updated successfully",
			"user": gin.H{
				"id":         user.ID,
				"email":      user.Email,
				"firstName":  user.FirstName,
				"lastName":   user.LastName,
				"contactNum": user.ContactNum,
				"userType":   user.UserType,
			},
		})
	}
}

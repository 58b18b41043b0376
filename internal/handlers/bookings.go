package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"github.com/xcelrent/xcelrent-backend/pkg/utils"
	"gorm.io/gorm"
)

// GetClientBookings lists the caller's bookings, newest first. This backs
// the trips screen; denormalized car fields mean no joins are needed.
func GetClientBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var bookings []models.Booking
		query := db.Where("user_id = ?", userID)

		if status := c.Query("status"); status != "" {
			if !models.ValidBookingStatus(models.BookingStatus(status)) {
				c.JSON(400, gin.H{"error": "Invalid booking status"})
				return
			}
			query = query.Where("status = ?", status)
		}

		if result := query.Order("created_at DESC").Find(&bookings); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings, "count": len(bookings)})
	}
}

// GetBookingStatus returns one booking owned by the caller. Used by the
// status screen on cold start; subsequent updates arrive over the socket.
func GetBookingStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		var booking models.Booking
		if result := db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, gin.H{
			"booking":     booking,
			"cancellable": booking.Status.Cancellable(),
		})
	}
}

// CancelBooking cancels the caller's booking and releases the car back to
// Live in one transaction. Either both rows change or neither does.
func CancelBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		var booking models.Booking
		if result := db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.Status.Cancellable() {
			c.JSON(409, gin.H{"error": "Booking can no longer be cancelled", "status": booking.Status})
			return
		}

		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to start transaction"})
			return
		}

		// The status predicate closes the race with a concurrent admin
		// advance; a booking that already moved on stays untouched.
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", booking.ID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Update("status", models.BookingStatusCancelled)
		if res.Error != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Booking can no longer be cancelled"})
			return
		}

		if err := tx.Model(&models.Car{}).Where("id = ?", booking.CarID).
			Update("status", models.CarStatusLive).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to release car"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to commit cancellation"})
			return
		}

		booking.Status = models.BookingStatusCancelled
		go statusNotifier(db, hub, &booking)

		c.JSON(200, gin.H{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	}
}

// statusNotifier is a seam for tests.
var statusNotifier = notifyStatusChange

// notifyStatusChange fans a committed status change out to the renter's live
// listeners, FCM token and email. Best effort after the commit.
func notifyStatusChange(db *gorm.DB, hub *services.Hub, booking *models.Booking) {
	ctx := context.Background()
	status := string(booking.Status)

	if err := services.PublishBookingUpdate(ctx, booking.ID, booking.UserID, status); err != nil {
		log.Printf("Failed to publish booking update: %v", err)
	}

	services.NotifyBookingStatus(hub, booking.UserID, booking.ID, booking.Reference, status)

	var user models.User
	if result := db.First(&user, booking.UserID); result.Error != nil {
		log.Printf("Failed to load booking user %d: %v", booking.UserID, result.Error)
		return
	}

	if user.FCMToken != "" {
		if err := services.SendBookingStatusNotification(ctx, user.FCMToken, booking.Reference, booking.CarModel, status); err != nil {
			log.Printf("Failed to send status notification: %v", err)
		}
	}

	if err := utils.SendBookingStatusEmail(user.Email, booking.CarModel, booking.Reference, status); err != nil {
		log.Printf("Failed to send status email: %v", err)
	}

	if user.ContactNum != "" {
		if err := utils.SendBookingStatusSMS(user.ContactNum, booking.CarModel, status); err != nil {
			log.Printf("Failed to send status SMS: %v", err)
		}
	}
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"gorm.io/gorm"
)

// GetAllBookings lists every booking for the admin console, newest first,
// optionally filtered by status.
func GetAllBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bookings []models.Booking
		query := db.Preload("User")

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

		out := make([]gin.H, 0, len(bookings))
		for _, b := range bookings {
			out = append(out, gin.H{
				"booking":    b,
				"renterName": b.User.FullName(),
				"contactNum": b.User.ContactNum,
				"email":      b.User.Email,
			})
		}

		c.JSON(200, gin.H{"bookings": out, "count": len(out)})
	}
}

// GetAllUsers lists every registered account for the admin console, newest
// first, optionally filtered by user type.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		query := db.Order("created_at DESC")

		if userType := c.Query("userType"); userType != "" {
			if userType != string(models.UserTypeRenter) && userType != string(models.UserTypeAdmin) {
				c.JSON(400, gin.H{"error": "Invalid user type"})
				return
			}
			query = query.Where("user_type = ?", userType)
		}

		if result := query.Find(&users); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		out := make([]gin.H, 0, len(users))
		for _, u := range users {
			out = append(out, gin.H{
				"id":         u.ID,
				"fullName":   u.FullName(),
				"email":      u.Email,
				"contactNum": u.ContactNum,
				"userType":   u.UserType,
				"isVerified": u.IsVerified,
				"createdAt":  u.CreatedAt,
			})
		}

		c.JSON(200, gin.H{"users": out, "count": len(out)})
	}
}

// UpdateBookingStatusInput carries the admin status change.
type UpdateBookingStatusInput struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

// UpdateBookingStatus advances a booking along the admin path. Illegal
// transitions are rejected; the car record is not touched here, only the
// renter-initiated cancellation releases a vehicle.
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		var input UpdateBookingStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.ValidBookingStatus(input.Status) {
			c.JSON(400, gin.H{"error": "Invalid booking status"})
			return
		}

		var booking models.Booking
		if result := db.First(&booking, bookingID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.Status.CanTransitionTo(input.Status) {
			c.JSON(409, gin.H{
				"error": "Invalid status transition",
				"from":  booking.Status,
				"to":    input.Status,
			})
			return
		}

		if result := db.Model(&booking).Update("status", input.Status); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		booking.Status = input.Status
		go statusNotifier(db, hub, &booking)

		c.JSON(200, gin.H{
			"message": "Booking status updated",
			"booking": booking,
		})
	}
}

// GetAdminStats returns the dashboard counters. Revenue counts completed and
// on-going rentals; active bookings are the confirmed and on-going ones.
func GetAdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalBookings, pendingBookings, activeBookings, completedBookings, cancelledBookings int64
		db.Model(&models.Booking{}).Count(&totalBookings)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&pendingBookings)
		db.Model(&models.Booking{}).
			Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusOnGoing}).
			Count(&activeBookings)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&completedBookings)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&cancelledBookings)

		var totalRevenue float64
		db.Model(&models.Booking{}).
			Where("status IN ?", []models.BookingStatus{models.BookingStatusCompleted, models.BookingStatusOnGoing}).
			Select("COALESCE(SUM(total_price), 0)").Scan(&totalRevenue)

		var totalCars, liveCars, bookedCars int64
		db.Model(&models.Car{}).Count(&totalCars)
		db.Model(&models.Car{}).Where("status = ?", models.CarStatusLive).Count(&liveCars)
		db.Model(&models.Car{}).Where("status = ?", models.CarStatusBooked).Count(&bookedCars)

		var totalRenters int64
		db.Model(&models.User{}).Where("user_type = ?", models.UserTypeRenter).Count(&totalRenters)

		c.JSON(200, gin.H{
			"bookings": gin.H{
				"total":     totalBookings,
				"pending":   pendingBookings,
				"active":    activeBookings,
				"completed": completedBookings,
				"cancelled": cancelledBookings,
			},
			"revenue": totalRevenue,
			"cars": gin.H{
				"total":  totalCars,
				"live":   liveCars,
				"booked": bookedCars,
			},
			"renters": totalRenters,
		})
	}
}

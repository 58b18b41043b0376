package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"gorm.io/gorm"
)

// GetAvailableCars lists the vehicles renters can browse. Only Live cars
// appear in the marketplace feed.
func GetAvailableCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cars []models.Car
		query := db.Where("status = ?", models.CarStatusLive)

		if location := c.Query("location"); location != "" {
			query = query.Where("location ILIKE ?", "%"+location+"%")
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			if price, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price_per_day <= ?", price)
			}
		}

		if result := query.Order("created_at DESC").Find(&cars); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		c.JSON(200, gin.H{"cars": cars, "count": len(cars)})
	}
}

// GetCar returns one vehicle by id, regardless of status. Deep links may
// target a car that has since been booked; the client needs the record to
// explain why.
func GetCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car ID"})
			return
		}

		var car models.Car
		if result := db.First(&car, carID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		c.JSON(200, gin.H{"car": car, "imageUrl": services.GetImageURL(car.ImageURL)})
	}
}

// CreateCar adds a vehicle to the inventory. Admin only; the image is an
// optional multipart upload.
func CreateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pricePerDay, err := strconv.ParseFloat(c.PostForm("pricePerDay"), 64)
		if err != nil || pricePerDay <= 0 {
			c.JSON(400, gin.H{"error": "Valid pricePerDay is required"})
			return
		}

		car := models.Car{
			CarModel:     c.PostForm("model"),
			PricePerDay:  pricePerDay,
			Specs:        c.PostForm("specs"),
			PlateNumber:  c.PostForm("plateNumber"),
			Location:     c.PostForm("location"),
			OwnerContact: c.PostForm("ownerContact"),
			Status:       models.CarStatusLive,
		}

		if car.CarModel == "" || car.PlateNumber == "" {
			c.JSON(400, gin.H{"error": "model and plateNumber are required"})
			return
		}

		if file, err := c.FormFile("image"); err == nil {
			imageURL, err := services.UploadImage(file, services.FolderCars)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload image: " + err.Error()})
				return
			}
			car.ImageURL = imageURL
		}

		if result := db.Create(&car); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create car: " + result.Error.Error()})
			return
		}

		c.JSON(201, gin.H{"message": "Car created successfully", "car": car})
	}
}

// UpdateCar edits vehicle details. Admin only.
func UpdateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car ID"})
			return
		}

		var car models.Car
		if result := db.First(&car, carID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		updates := map[string]interface{}{}
		if v := c.PostForm("model"); v != "" {
			updates["car_model"] = v
		}
		if v := c.PostForm("specs"); v != "" {
			updates["specs"] = v
		}
		if v := c.PostForm("plateNumber"); v != "" {
			updates["plate_number"] = v
		}
		if v := c.PostForm("location"); v != "" {
			updates["location"] = v
		}
		if v := c.PostForm("ownerContact"); v != "" {
			updates["owner_contact"] = v
		}
		if v := c.PostForm("pricePerDay"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil || price <= 0 {
				c.JSON(400, gin.H{"error": "Invalid pricePerDay"})
				return
			}
			updates["price_per_day"] = price
		}

		if file, err := c.FormFile("image"); err == nil {
			imageURL, err := services.UploadImage(file, services.FolderCars)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload image: " + err.Error()})
				return
			}
			if car.ImageURL != "" {
				services.DeleteImage(car.ImageURL)
			}
			updates["image_url"] = imageURL
		}

		if len(updates) > 0 {
			if result := db.Model(&car).Updates(updates); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update car"})
				return
			}
		}

		c.JSON(200, gin.H{"message": "Car updated successfully", "car": car})
	}
}

// UpdateCarStatusInput carries the inventory state change.
type UpdateCarStatusInput struct {
	Status models.CarStatus `json:"status" binding:"required"`
}

// UpdateCarStatus flips a vehicle between Live, Booked and Unavailable.
// Admin only.
func UpdateCarStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car ID"})
			return
		}

		var input UpdateCarStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.ValidCarStatus(input.Status) {
			c.JSON(400, gin.H{"error": "Invalid car status"})
			return
		}

		var car models.Car
		if result := db.First(&car, carID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if result := db.Model(&car).Update("status", input.Status); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update car status"})
			return
		}

		c.JSON(200, gin.H{"message": "Car status updated", "car": car})
	}
}

// DeleteCar removes a vehicle from inventory. Admin only; cars with
// non-terminal bookings cannot be removed.
func DeleteCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car ID"})
			return
		}

		var car models.Car
		if result := db.First(&car, carID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var activeBookings int64
		db.Model(&models.Booking{}).
			Where("car_id = ? AND status IN ?", carID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusOnGoing}).
			Count(&activeBookings)
		if activeBookings > 0 {
			c.JSON(409, gin.H{"error": "Car has active bookings and cannot be deleted"})
			return
		}

		if car.ImageURL != "" {
			services.DeleteImage(car.ImageURL)
		}

		if result := db.Delete(&car); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete car"})
			return
		}

		c.JSON(200, gin.H{"message": "Car deleted successfully"})
	}
}

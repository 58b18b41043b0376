package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"github.com/xcelrent/xcelrent-backend/internal/wizard"
	"github.com/xcelrent/xcelrent-backend/pkg/utils"
	"gorm.io/gorm"
)

// StartWizardInput opens a booking draft for a car. Dates are optional; the
// deep-link contract fills in today and today+3 when they are missing or
// malformed.
type StartWizardInput struct {
	CarID      uint   `json:"carId" binding:"required"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func draftResponse(draft *wizard.Draft) gin.H {
	resp := gin.H{
		"draft": draft,
		"step":  draft.Step,
		"label": draft.Step.String(),
		"quote": draft.Quote(),
	}
	if err := draft.CanAdvance(); err != nil {
		resp["canAdvance"] = false
		resp["blockedBy"] = err.Error()
	} else {
		resp["canAdvance"] = true
	}
	if missing := draft.Documents.Missing(); len(missing) > 0 {
		resp["missingDocuments"] = missing
	}
	return resp
}

// StartWizard begins the booking flow against a Live car. A user has at most
// one draft; starting again replaces it.
func StartWizard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input StartWizardInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var car models.Car
		if result := db.First(&car, input.CarID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if car.Status != models.CarStatusLive {
			c.JSON(409, gin.H{"error": "Car is not available for booking"})
			return
		}

		replaced, err := services.HasWizardDraft(c.Request.Context(), userID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to start booking"})
			return
		}

		draft := wizard.NewDraft(userID, &car, input.PickupDate, input.ReturnDate)
		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to start booking"})
			return
		}

		resp := draftResponse(draft)
		resp["replaced"] = replaced
		c.JSON(201, resp)
	}
}

// loadDraft fetches the caller's draft or writes the 404 itself.
func loadDraft(c *gin.Context) (*wizard.Draft, bool) {
	userID := c.GetUint("userId")
	draft, err := services.GetWizardDraft(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(404, gin.H{"error": "No booking in progress"})
		} else {
			c.JSON(500, gin.H{"error": "Failed to load booking draft"})
		}
		return nil, false
	}
	return draft, true
}

// GetWizardDraft returns the current draft with its quote and guard state.
func GetWizardDraft() gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, ok := loadDraft(c)
		if !ok {
			return
		}
		c.JSON(200, draftResponse(draft))
	}
}

// UpdateWizardDatesInput changes the rental period on the vehicle step.
type UpdateWizardDatesInput struct {
	PickupDate string `json:"pickupDate" binding:"required"`
	ReturnDate string `json:"returnDate" binding:"required"`
}

// UpdateWizardDates rewrites the rental period. The quote is derived, so it
// follows automatically.
func UpdateWizardDates() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateWizardDatesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		draft.PickupDate = utils.ParseDateOrDefault(input.PickupDate, draft.PickupDate)
		draft.ReturnDate = utils.ParseDateOrDefault(input.ReturnDate, draft.ReturnDate)

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// UpdateWizardRenterInput carries the renter-step selections. Empty strings
// leave the stored value alone so the client can patch fields one at a time.
type UpdateWizardRenterInput struct {
	ServiceMode      string `json:"serviceMode"`
	Handover         string `json:"handover"`
	ReturnLocation   string `json:"returnLocation"`
	DeliveryLocation string `json:"deliveryLocation"`
	PaymentMethod    string `json:"paymentMethod"`
}

// PaymentMethods are the accepted payment channels for the reservation fee.
var PaymentMethods = []string{"GCash", "Maya", "BDO", "GoTyme", "MariBank"}

func validPaymentMethod(m string) bool {
	for _, method := range PaymentMethods {
		if method == m {
			return true
		}
	}
	return false
}

// UpdateWizardRenter updates the renter and payment selections on the draft.
func UpdateWizardRenter() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateWizardRenterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		if input.ServiceMode != "" {
			mode := models.ServiceMode(input.ServiceMode)
			if mode != models.ServiceModeSelfDrive && mode != models.ServiceModeWithDriver {
				c.JSON(400, gin.H{"error": "Invalid service mode"})
				return
			}
			draft.ServiceMode = mode
		}
		if input.Handover != "" {
			handover := models.HandoverMode(input.Handover)
			if handover != models.HandoverPickup && handover != models.HandoverDelivery {
				c.JSON(400, gin.H{"error": "Invalid handover mode"})
				return
			}
			draft.Handover = handover
		}
		if input.ReturnLocation != "" {
			draft.ReturnLocation = input.ReturnLocation
		}
		if input.DeliveryLocation != "" {
			draft.DeliveryLocation = input.DeliveryLocation
		}
		if input.PaymentMethod != "" {
			if !validPaymentMethod(input.PaymentMethod) {
				c.JSON(400, gin.H{"error": "Invalid payment method"})
				return
			}
			draft.PaymentMethod = input.PaymentMethod
		}

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// UploadPaymentProof attaches the reservation-fee receipt to the draft.
func UploadPaymentProof() gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Payment proof image is required"})
			return
		}

		imageURL, err := services.UploadImage(file, services.FolderPayments)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload payment proof: " + err.Error()})
			return
		}

		if draft.PaymentProofURL != "" {
			services.DeleteImage(draft.PaymentProofURL)
		}
		draft.PaymentProofURL = imageURL

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// UploadDocument attaches one identity document to the named slot. Replacing
// an existing upload discards the old file.
func UploadDocument() gin.HandlerFunc {
	return func(c *gin.Context) {
		slot := wizard.DocumentSlot(c.Param("slot"))

		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Document image is required"})
			return
		}

		imageURL, err := services.UploadImage(file, services.FolderDocuments)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload document: " + err.Error()})
			return
		}

		if err := draft.Documents.Set(slot, imageURL); err != nil {
			services.DeleteImage(imageURL)
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// AdvanceWizard moves the draft forward one step if its guard passes.
func AdvanceWizard() gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		if err := draft.Advance(); err != nil {
			c.JSON(422, gin.H{"error": err.Error(), "step": draft.Step, "label": draft.Step.String()})
			return
		}

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// BackWizard moves the draft one step backward. Backing out of the first
// step abandons the flow and discards the draft.
func BackWizard() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		if exited := draft.Back(); exited {
			if err := services.DeleteWizardDraft(c.Request.Context(), userID); err != nil {
				c.JSON(500, gin.H{"error": "Failed to discard booking draft"})
				return
			}
			c.JSON(200, gin.H{"message": "Booking cancelled", "exited": true})
			return
		}

		if err := services.SaveWizardDraft(c.Request.Context(), draft); err != nil {
			c.JSON(500, gin.H{"error": "Failed to save booking draft"})
			return
		}

		c.JSON(200, draftResponse(draft))
	}
}

// DiscardWizard abandons the flow from any step.
func DiscardWizard() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if err := services.DeleteWizardDraft(c.Request.Context(), userID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to discard booking draft"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking draft discarded"})
	}
}

// ConfirmBooking turns the summary-step draft into a booking row. This is
// the single write of the flow; the draft is discarded only after the insert
// succeeds, so a failed confirmation leaves the user on the summary step.
func ConfirmBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		draft, ok := loadDraft(c)
		if !ok {
			return
		}

		reference := uuid.New().String()
		booking, err := draft.Booking(reference)
		if err != nil {
			c.JSON(422, gin.H{"error": err.Error()})
			return
		}

		// Re-check availability at the last moment; the car may have been
		// booked while the wizard was open.
		var car models.Car
		if result := db.First(&car, draft.CarID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car no longer exists"})
			return
		}
		if car.Status != models.CarStatusLive {
			c.JSON(409, gin.H{"error": "Car is no longer available"})
			return
		}

		if result := db.Create(booking); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking: " + result.Error.Error()})
			return
		}

		if err := services.DeleteWizardDraft(c.Request.Context(), userID); err != nil {
			log.Printf("Failed to discard draft after confirmation for user %d: %v", userID, err)
		}

		go notifyBookingCreated(db, hub, booking)

		c.JSON(201, gin.H{
			"message": "Booking submitted successfully",
			"booking": booking,
		})
	}
}

// notifyBookingCreated fans the new booking out to live listeners, admins
// and email. Best effort; the booking row is already committed.
func notifyBookingCreated(db *gorm.DB, hub *services.Hub, booking *models.Booking) {
	ctx := context.Background()

	if err := services.PublishBookingUpdate(ctx, booking.ID, booking.UserID, string(booking.Status)); err != nil {
		log.Printf("Failed to publish booking update: %v", err)
	}

	services.NotifyBookingStatus(hub, booking.UserID, booking.ID, booking.Reference, string(booking.Status))
	services.NotifyBookingCreated(hub, booking.ID, booking.Reference, booking.CarModel, booking.TotalPrice)

	var user models.User
	if result := db.First(&user, booking.UserID); result.Error != nil {
		log.Printf("Failed to load booking user %d: %v", booking.UserID, result.Error)
		return
	}

	if user.FCMToken != "" {
		if err := services.SendBookingReceivedNotification(ctx, user.FCMToken, booking.Reference, booking.CarModel); err != nil {
			log.Printf("Failed to send booking notification: %v", err)
		}
	}

	if err := utils.SendBookingConfirmationEmail(
		user.Email, user.FullName(), booking.CarModel, booking.PlateNumber,
		booking.Reference, booking.TotalPrice, booking.ReservationFee, booking.RemainingBalance,
	); err != nil {
		log.Printf("Failed to send booking confirmation email: %v", err)
	}
}

// QuoteForCar prices a rental period for a car without opening a draft.
func QuoteForCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Query("carId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Valid carId is required"})
			return
		}

		var car models.Car
		if result := db.First(&car, carID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		now := utils.ParseDateOrDefault(c.Query("pickupDate"), time.Now())
		ret := utils.ParseDateOrDefault(c.Query("returnDate"), now.AddDate(0, 0, utils.DefaultRentalSpanDays))

		c.JSON(200, gin.H{
			"car":   gin.H{"id": car.ID, "model": car.CarModel, "pricePerDay": car.PricePerDay},
			"quote": utils.CalculateQuote(car.PricePerDay, now, ret),
		})
	}
}

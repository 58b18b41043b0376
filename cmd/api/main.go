package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/xcelrent/xcelrent-backend/internal/database"
	"github.com/xcelrent/xcelrent-backend/internal/handlers"
	"github.com/xcelrent/xcelrent-backend/internal/middleware"
	"github.com/xcelrent/xcelrent-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis holds the wizard drafts; the API cannot run without it
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Firebase (optional - will log warning if not configured)
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve static files
	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/verify-email", handlers.VerifyEmail(db))
			auth.POST("/forgot-password", handlers.RequestPasswordReset(db))
			auth.POST("/verify-otp", handlers.VerifyOTP(db))
			auth.POST("/reset-password", handlers.ResetPassword(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			cars := protected.Group("/cars")
			{
				cars.GET("", handlers.GetAvailableCars(db))
				cars.GET("/:id", handlers.GetCar(db))
			}

			// Booking wizard routes
			wizard := protected.Group("/bookings/wizard")
			{
				wizard.POST("", handlers.StartWizard(db))
				wizard.GET("", handlers.GetWizardDraft())
				wizard.PUT("/dates", handlers.UpdateWizardDates())
				wizard.PUT("/renter", handlers.UpdateWizardRenter())
				wizard.POST("/payment-proof", handlers.UploadPaymentProof())
				wizard.POST("/documents/:slot", handlers.UploadDocument())
				wizard.POST("/advance", handlers.AdvanceWizard())
				wizard.POST("/back", handlers.BackWizard())
				wizard.POST("/confirm", handlers.ConfirmBooking(db, hub))
				wizard.DELETE("", handlers.DiscardWizard())
			}

			bookings := protected.Group("/bookings")
			{
				bookings.GET("/client", handlers.GetClientBookings(db))
				bookings.GET("/:id/status", handlers.GetBookingStatus(db))
				bookings.POST("/:id/cancel", handlers.CancelBooking(db, hub))
			}

			pricing := protected.Group("/pricing")
			{
				pricing.GET("/quote", handlers.QuoteForCar(db))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.POST("/register-token", handlers.RegisterFCMToken(db))
				notifications.DELETE("/remove-token", handlers.RemoveFCMToken(db))
			}

			// Admin console routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", handlers.GetAllUsers(db))
				admin.GET("/bookings", handlers.GetAllBookings(db))
				admin.PATCH("/bookings/:id/status", handlers.UpdateBookingStatus(db, hub))
				admin.GET("/stats", handlers.GetAdminStats(db))
				admin.POST("/cars", handlers.CreateCar(db))
				admin.PUT("/cars/:id", handlers.UpdateCar(db))
				admin.PATCH("/cars/:id/status", handlers.UpdateCarStatus(db))
				admin.DELETE("/cars/:id", handlers.DeleteCar(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

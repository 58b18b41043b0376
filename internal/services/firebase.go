package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	// FirebaseApp is the Firebase app instance
	FirebaseApp *firebase.App
	// MessagingClient is the Firebase Cloud Messaging client
	MessagingClient *messaging.Client
)

// InitFirebase initializes Firebase Admin SDK
func InitFirebase() error {
	ctx := context.Background()

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will be disabled.")
		return nil
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting messaging client: %v", err)
	}

	FirebaseApp = app
	MessagingClient = client

	log.Println("Firebase Cloud Messaging initialized successfully")
	return nil
}

// NotificationPayload represents the notification data
type NotificationPayload struct {
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Image     string                 `json:"image,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
}

func getAndroidConfig(payload NotificationPayload) *messaging.AndroidConfig {
	channelID := payload.ChannelID
	if channelID == "" {
		channelID = "xcelrent_default"
	}

	sound := payload.Sound
	if sound == "" {
		sound = "default"
	}

	priority := messaging.PriorityHigh
	if payload.Priority == "normal" {
		priority = messaging.PriorityDefault
	}

	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			Sound:                 sound,
			ChannelID:             channelID,
			Priority:              priority,
			DefaultSound:          sound == "default",
			Color:                 "#E53935", // XcelRent brand color
			DefaultVibrateTimings: true,
		},
	}
}

func getAPNSConfig(payload NotificationPayload) *messaging.APNSConfig {
	sound := payload.Sound
	if sound == "" {
		sound = "default"
	}

	badge := 1
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound:            sound,
				Badge:            &badge,
				MutableContent:   true,
				ContentAvailable: true,
			},
		},
	}
}

// SendNotificationToToken sends a notification to a specific FCM token
func SendNotificationToToken(ctx context.Context, token string, payload NotificationPayload) error {
	if MessagingClient == nil {
		log.Println("Warning: Firebase not initialized. Skipping notification.")
		return nil
	}
	if token == "" {
		return nil
	}

	// Convert data map to string map (required by FCM)
	dataStrings := make(map[string]string)
	for key, value := range payload.Data {
		switch v := value.(type) {
		case string:
			dataStrings[key] = v
		case int, int64, float64, bool:
			dataStrings[key] = fmt.Sprintf("%v", v)
		default:
			jsonData, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling data for key %s: %v", key, err)
				continue
			}
			dataStrings[key] = string(jsonData)
		}
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data:  dataStrings,
		Token: token,
	}

	if payload.Image != "" {
		message.Notification.ImageURL = payload.Image
	}

	message.Android = getAndroidConfig(payload)
	message.APNS = getAPNSConfig(payload)

	response, err := MessagingClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %v", err)
	}

	log.Printf("Successfully sent notification, response: %s", response)
	return nil
}

// SubscribeToTopic subscribes tokens to an FCM topic
func SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	if MessagingClient == nil {
		return nil
	}

	response, err := MessagingClient.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %v", topic, err)
	}

	log.Printf("Subscribed %d tokens to topic %s", response.SuccessCount, topic)
	return nil
}

// SendBookingStatusNotification tells a renter their booking changed status.
func SendBookingStatusNotification(ctx context.Context, token, reference, carModel, status string) error {
	bodies := map[string]string{
		"Confirmed": "Your booking for %s has been confirmed. Get ready for your trip!",
		"On-going":  "Your rental of %s is now on-going. Drive safe!",
		"Completed": "Your rental of %s is complete. Thank you for riding with XcelRent!",
		"Cancelled": "Your booking for %s has been cancelled.",
	}

	body, ok := bodies[status]
	if !ok {
		body = "Your booking for %s is now " + status + "."
	}

	payload := NotificationPayload{
		Title:     "Booking " + status,
		Body:      fmt.Sprintf(body, carModel),
		ChannelID: "xcelrent_bookings",
		Data: map[string]interface{}{
			"type":      "booking_status",
			"reference": reference,
			"status":    status,
		},
	}

	return SendNotificationToToken(ctx, token, payload)
}

// SendBookingReceivedNotification confirms to a renter that their booking
// was created and is awaiting review.
func SendBookingReceivedNotification(ctx context.Context, token, reference, carModel string) error {
	payload := NotificationPayload{
		Title:     "Booking Received",
		Body:      fmt.Sprintf("We received your booking for %s. You'll be notified once it's reviewed.", carModel),
		ChannelID: "xcelrent_bookings",
		Data: map[string]interface{}{
			"type":      "booking_created",
			"reference": reference,
		},
	}

	return SendNotificationToToken(ctx, token, payload)
}

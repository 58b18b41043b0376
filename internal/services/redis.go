package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xcelrent/xcelrent-backend/internal/wizard"
)

var RedisClient *redis.Client

// DraftTTL is how long an untouched wizard draft survives before it is
// considered abandoned. Every save refreshes the clock.
const DraftTTL = 24 * time.Hour

// BookingUpdatesChannel carries booking status changes for live listeners.
// Updates are published after the database write commits, so subscribers
// observe changes in write order for a given booking.
const BookingUpdatesChannel = "booking:updates"

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func draftKey(userID uint) string {
	return fmt.Sprintf("wizard:draft:%d", userID)
}

// SaveWizardDraft stores the user's in-flight booking draft. Drafts never
// touch the database; expiry or deletion is all the cleanup there is.
func SaveWizardDraft(ctx context.Context, draft *wizard.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, draftKey(draft.UserID), data, DraftTTL).Err()
}

// GetWizardDraft retrieves the user's current draft. Returns redis.Nil
// wrapped in the error when no draft exists.
func GetWizardDraft(ctx context.Context, userID uint) (*wizard.Draft, error) {
	data, err := RedisClient.Get(ctx, draftKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var draft wizard.Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// DeleteWizardDraft discards the user's draft, if any.
func DeleteWizardDraft(ctx context.Context, userID uint) error {
	return RedisClient.Del(ctx, draftKey(userID)).Err()
}

// HasWizardDraft reports whether the user has an in-flight draft.
func HasWizardDraft(ctx context.Context, userID uint) (bool, error) {
	n, err := RedisClient.Exists(ctx, draftKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PublishBookingUpdate publishes a booking status change to Redis pub/sub.
// No-op when Redis is not configured.
func PublishBookingUpdate(ctx context.Context, bookingID, userID uint, status string) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"userId":    userID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, BookingUpdatesChannel, data).Err()
}

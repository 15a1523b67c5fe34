// File: utils/booking_session.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"brightpath/config"
	"brightpath/models"
)

const BookingSessionPrefix = "bookingSession:"

// SaveBookingSession saves the booking wizard session in Redis with a TTL.
func SaveBookingSession(client *redis.Client, sessionID string, session models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	ttl := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ctx := context.Background()
	if err := client.Set(ctx, BookingSessionPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save booking session: %w", err)
	}
	return nil
}

// GetBookingSession retrieves the booking wizard session from Redis.
func GetBookingSession(client *redis.Client, sessionID string) (*models.WizardSession, error) {
	ctx := context.Background()
	data, err := client.Get(ctx, BookingSessionPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &session, nil
}

// DeleteBookingSession removes a booking wizard session from Redis.
func DeleteBookingSession(client *redis.Client, sessionID string) error {
	ctx := context.Background()
	return client.Del(ctx, BookingSessionPrefix+sessionID).Err()
}

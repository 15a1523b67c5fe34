// File: database/repository/location/availability.go
package locationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brightpath/models"
)

func (r *mongoLocationRepo) UpdateWeekly(ctx context.Context, id string, weekly models.WeeklyAvailability, bufferMinutes int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"weekly":        weekly,
		"bufferMinutes": bufferMinutes,
		"updatedAt":     time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update weekly availability for location %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoLocationRepo) AddUnavailableDate(ctx context.Context, id string, date models.UnavailableDate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Match only when the date is not already listed, so repeated adds of the
	// same day stay a no-op instead of stacking duplicates.
	filter := bson.M{
		"id":                    id,
		"unavailableDates.date": bson.M{"$ne": date.Date},
	}
	update := bson.M{
		"$push": bson.M{"unavailableDates": date},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add unavailable date to location %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		// Either the location is missing or the date already exists; tell
		// them apart so callers can 404 correctly.
		loc, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return gerr
		}
		if loc == nil {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

func (r *mongoLocationRepo) RemoveUnavailableDate(ctx context.Context, id string, dateKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"unavailableDates": bson.M{"date": dateKey}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to remove unavailable date from location %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

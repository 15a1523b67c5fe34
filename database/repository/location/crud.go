// File: database/repository/location/crud.go
package locationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brightpath/models"
)

func (r *mongoLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	now := time.Now()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, loc); err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (r *mongoLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var loc models.Location
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&loc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location %s: %w", id, err)
	}
	return &loc, nil
}

func (r *mongoLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	loc.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": loc.ID}, loc)
	if err != nil {
		return fmt.Errorf("failed to update location %s: %w", loc.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoLocationRepo) List(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locs []models.Location
	if err := cursor.All(ctx, &locs); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locs, nil
}

// File: database/repository/commitment/crud.go
package commitmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brightpath/models"
)

func (r *mongoCommitmentRepo) Create(ctx context.Context, c *models.Commitment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to insert commitment: %w", err)
	}
	return nil
}

func (r *mongoCommitmentRepo) CreateMany(ctx context.Context, cs []models.Commitment) ([]string, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, len(cs))
	ids := make([]string, len(cs))
	for i := range cs {
		if cs[i].ID == "" {
			cs[i].ID = uuid.New().String()
		}
		cs[i].CreatedAt = now
		cs[i].UpdatedAt = now
		docs[i] = cs[i]
		ids[i] = cs[i].ID
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert commitments: %w", err)
	}
	return ids, nil
}

func (r *mongoCommitmentRepo) GetByID(ctx context.Context, id string) (*models.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Commitment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commitment %s: %w", id, err)
	}
	return &c, nil
}

func (r *mongoCommitmentRepo) Update(ctx context.Context, c *models.Commitment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("failed to update commitment %s: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCommitmentRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete commitment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// File: database/repository/commitment/queries.go
package commitmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brightpath/models"
)

// Date keys are "YYYY-MM-DD" strings, so range filters compare lexically and
// stay immune to timezone drift.

func (r *mongoCommitmentRepo) find(ctx context.Context, filter bson.M) ([]models.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query commitments: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Commitment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode commitments: %w", err)
	}
	return out, nil
}

func (r *mongoCommitmentRepo) ListByLocationAndDate(ctx context.Context, locationID, dateKey string) ([]models.Commitment, error) {
	return r.find(ctx, bson.M{"locationId": locationID, "date": dateKey})
}

func (r *mongoCommitmentRepo) ListByLocationRange(ctx context.Context, locationID, fromKey, toKey string) ([]models.Commitment, error) {
	return r.find(ctx, bson.M{
		"locationId": locationID,
		"date":       bson.M{"$gte": fromKey, "$lte": toKey},
	})
}

func (r *mongoCommitmentRepo) ListByRule(ctx context.Context, ruleID string) ([]models.Commitment, error) {
	return r.find(ctx, bson.M{"recurrenceRuleId": ruleID})
}

func (r *mongoCommitmentRepo) ListByRuleFromDate(ctx context.Context, ruleID, fromKey string) ([]models.Commitment, error) {
	return r.find(ctx, bson.M{
		"recurrenceRuleId": ruleID,
		"date":             bson.M{"$gte": fromKey},
	})
}

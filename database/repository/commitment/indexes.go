// File: database/repository/commitment/indexes.go
package commitmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the indexes the slot generator and calendar reads
// depend on. Safe to call at every startup.
func (r *mongoCommitmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on commitment ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: all commitments at a location on a date
		{
			Keys:    bson.D{{Key: "locationId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("location_date_idx"),
		},
		// Series sweeps: all commitments of a rule from a cutoff date
		{
			Keys:    bson.D{{Key: "recurrenceRuleId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("rule_date_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create commitment indexes: %w", err)
	}
	return nil
}

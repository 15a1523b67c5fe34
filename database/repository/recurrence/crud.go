// File: database/repository/recurrence/crud.go
package recurrenceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brightpath/models"
)

func (r *mongoRuleRepo) GetByID(ctx context.Context, id string) (*models.RecurrenceRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rule models.RecurrenceRule
	err := r.ruleColl.FindOne(ctx, bson.M{"id": id}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recurrence rule %s: %w", id, err)
	}
	return &rule, nil
}

func (r *mongoRuleRepo) Update(ctx context.Context, rule *models.RecurrenceRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rule.UpdatedAt = time.Now()
	res, err := r.ruleColl.ReplaceOne(ctx, bson.M{"id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("failed to update recurrence rule %s: %w", rule.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoRuleRepo) SetStatus(ctx context.Context, id string, status models.RuleStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.ruleColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set status on recurrence rule %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoRuleRepo) ListActive(ctx context.Context) ([]models.RecurrenceRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.ruleColl.Find(ctx, bson.M{"status": models.RuleActive})
	if err != nil {
		return nil, fmt.Errorf("failed to query active recurrence rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []models.RecurrenceRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode recurrence rules: %w", err)
	}
	return rules, nil
}

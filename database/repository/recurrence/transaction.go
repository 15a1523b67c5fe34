// File: database/repository/recurrence/transaction.go
package recurrenceRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"brightpath/models"
)

// CreateWithOccurrences persists a new rule and its first batch of
// materialized commitments inside one MongoDB session, so a half-created
// series is never visible to readers.
func (r *mongoRuleRepo) CreateWithOccurrences(ctx context.Context, rule *models.RecurrenceRule, occurrences []models.Commitment) error {
	now := time.Now()
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = now
	rule.UpdatedAt = now

	docs := make([]interface{}, len(occurrences))
	for i := range occurrences {
		if occurrences[i].ID == "" {
			occurrences[i].ID = uuid.New().String()
		}
		occurrences[i].RecurrenceRuleID = rule.ID
		occurrences[i].CreatedAt = now
		occurrences[i].UpdatedAt = now
		docs[i] = occurrences[i]
	}

	client := r.ruleColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.ruleColl.InsertOne(sc, rule); err != nil {
			return fmt.Errorf("insert rule failed: %w", err)
		}
		if len(docs) > 0 {
			if _, err := r.commitmentColl.InsertMany(sc, docs); err != nil {
				return fmt.Errorf("insert occurrences failed: %w", err)
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("rule creation transaction failed: %w", err)
	}

	return nil
}

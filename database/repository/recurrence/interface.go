// File: database/repository/recurrence/interface.go
package recurrenceRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"brightpath/database"
	"brightpath/models"
	"brightpath/utils"
)

// RuleRepository is the read/write surface for recurrence rules. GetByID
// returns (nil, nil) when no rule matches.
type RuleRepository interface {
	// CreateWithOccurrences persists a new rule and its first batch of
	// materialized commitments as one multi-document transaction.
	CreateWithOccurrences(ctx context.Context, rule *models.RecurrenceRule, occurrences []models.Commitment) error
	GetByID(ctx context.Context, id string) (*models.RecurrenceRule, error)
	Update(ctx context.Context, rule *models.RecurrenceRule) error
	SetStatus(ctx context.Context, id string, status models.RuleStatus) error
	ListActive(ctx context.Context) ([]models.RecurrenceRule, error)
}

type mongoRuleRepo struct {
	ruleColl       *mongo.Collection
	commitmentColl *mongo.Collection
}

// NewMongoRuleRepo constructs a MongoDB-backed RuleRepository. The repo holds
// the commitments collection as well so rule creation can write both inside
// one session.
func NewMongoRuleRepo() RuleRepository {
	db := database.MongoClient.Database("brightpath")
	repo := &mongoRuleRepo{
		ruleColl:       db.Collection("recurrence_rules"),
		commitmentColl: db.Collection("commitments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create recurrence rule indexes", zap.Error(err))
	}
	return repo
}

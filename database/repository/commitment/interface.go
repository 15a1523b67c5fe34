// File: database/repository/commitment/interface.go
package commitmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"brightpath/database"
	"brightpath/models"
	"brightpath/utils"
)

// CommitmentRepository is the read/write surface for committed bookings and
// sessions. Lookups return (nil, nil) when no document matches.
type CommitmentRepository interface {
	Create(ctx context.Context, c *models.Commitment) error
	CreateMany(ctx context.Context, cs []models.Commitment) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.Commitment, error)
	Update(ctx context.Context, c *models.Commitment) error
	Delete(ctx context.Context, id string) error
	ListByLocationAndDate(ctx context.Context, locationID, dateKey string) ([]models.Commitment, error)
	ListByLocationRange(ctx context.Context, locationID, fromKey, toKey string) ([]models.Commitment, error)
	ListByRule(ctx context.Context, ruleID string) ([]models.Commitment, error)
	ListByRuleFromDate(ctx context.Context, ruleID, fromKey string) ([]models.Commitment, error)
}

type mongoCommitmentRepo struct {
	coll *mongo.Collection
}

// NewMongoCommitmentRepo constructs a MongoDB-backed CommitmentRepository.
func NewMongoCommitmentRepo() CommitmentRepository {
	db := database.MongoClient.Database("brightpath")
	repo := &mongoCommitmentRepo{
		coll: db.Collection("commitments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create commitment indexes", zap.Error(err))
	}
	return repo
}

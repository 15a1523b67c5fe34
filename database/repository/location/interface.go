// File: database/repository/location/interface.go
package locationRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"brightpath/database"
	"brightpath/models"
	"brightpath/utils"
)

// LocationRepository is the read/write surface for tutoring centre
// locations. GetByID returns (nil, nil) when no location matches.
type LocationRepository interface {
	Create(ctx context.Context, loc *models.Location) error
	GetByID(ctx context.Context, id string) (*models.Location, error)
	Update(ctx context.Context, loc *models.Location) error
	List(ctx context.Context) ([]models.Location, error)

	// UpdateWeekly replaces the weekly template and buffer in one write.
	UpdateWeekly(ctx context.Context, id string, weekly models.WeeklyAvailability, bufferMinutes int) error
	AddUnavailableDate(ctx context.Context, id string, date models.UnavailableDate) error
	RemoveUnavailableDate(ctx context.Context, id string, dateKey string) error
}

type mongoLocationRepo struct {
	coll *mongo.Collection
}

// NewMongoLocationRepo constructs a MongoDB-backed LocationRepository.
func NewMongoLocationRepo() LocationRepository {
	db := database.MongoClient.Database("brightpath")
	repo := &mongoLocationRepo{
		coll: db.Collection("locations"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create location indexes", zap.Error(err))
	}
	return repo
}

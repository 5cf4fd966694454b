package mongo

import (
	"context"
	"errors"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const statsCollectionName = "stats"

type mongoStatsRepository struct {
	collection *mongo.Collection
}

// NewMongoStatsRepository creates a stats repository keyed by user id.
func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{
		collection: db.Collection(statsCollectionName),
	}
}

func (r *mongoStatsRepository) Ensure(ctx context.Context, userID string) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"totalSetsCompleted":      0,
			"totalExercisesCompleted": 0,
			"updatedAt":               time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoStatsRepository) Get(ctx context.Context, userID string) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// Increment adds both deltas in a single pipeline update, clamping at zero.
func (r *mongoStatsRepository) Increment(ctx context.Context, userID string, setsDelta, exercisesDelta int) (*domain.Stats, error) {
	clampedAdd := func(field string, delta int) bson.M {
		return bson.M{"$max": bson.A{
			0,
			bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, delta}},
		}}
	}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"totalSetsCompleted":      clampedAdd("totalSetsCompleted", setsDelta),
			"totalExercisesCompleted": clampedAdd("totalExercisesCompleted", exercisesDelta),
			"updatedAt":               time.Now().UTC(),
		}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stats domain.Stats
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, pipeline, opts).Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *mongoStatsRepository) SetLastWorkoutDate(ctx context.Context, userID string, date time.Time) error {
	update := bson.M{
		"$max": bson.M{"lastWorkoutDate": date},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

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

const privacyCollectionName = "privacy_settings"

type mongoPrivacyRepository struct {
	collection *mongo.Collection
}

func NewMongoPrivacyRepository(db *mongo.Database) repository.PrivacyRepository {
	return &mongoPrivacyRepository{
		collection: db.Collection(privacyCollectionName),
	}
}

func (r *mongoPrivacyRepository) Get(ctx context.Context, userID string) (*domain.PrivacySettings, error) {
	var settings domain.PrivacySettings
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *mongoPrivacyRepository) GetMany(ctx context.Context, userIDs []string) (map[string]domain.PrivacySettings, error) {
	out := make(map[string]domain.PrivacySettings, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var settings domain.PrivacySettings
		if err := cursor.Decode(&settings); err != nil {
			return nil, err
		}
		out[settings.UserID] = settings
	}
	return out, cursor.Err()
}

func (r *mongoPrivacyRepository) Upsert(ctx context.Context, settings *domain.PrivacySettings) error {
	settings.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settings.UserID}, settings, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoPrivacyRepository) EnsureDefault(ctx context.Context, userID string) (*domain.PrivacySettings, error) {
	defaults := domain.DefaultPrivacySettings(userID)
	update := bson.M{"$setOnInsert": bson.M{
		"showWorkoutDetails":    defaults.ShowWorkoutDetails,
		"showExerciseNames":     defaults.ShowExerciseNames,
		"showPerformanceTrends": defaults.ShowPerformanceTrends,
		"showWorkoutSchedule":   defaults.ShowWorkoutSchedule,
		"updatedAt":             defaults.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings domain.PrivacySettings
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

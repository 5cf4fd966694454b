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

const habitCollectionName = "habit_logs"

type mongoHabitRepository struct {
	collection *mongo.Collection
}

func NewMongoHabitRepository(db *mongo.Database) repository.HabitRepository {
	return &mongoHabitRepository{
		collection: db.Collection(habitCollectionName),
	}
}

func (r *mongoHabitRepository) Create(ctx context.Context, log *domain.HabitLog) error {
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

func (r *mongoHabitRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitLog, error) {
	filter := bson.M{
		"userId":   userID,
		"loggedAt": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "loggedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.HabitLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoHabitRepository) LatestInRange(ctx context.Context, userID string, habitType domain.HabitType, from, to time.Time) (*domain.HabitLog, error) {
	filter := bson.M{
		"userId":   userID,
		"type":     habitType,
		"loggedAt": bson.M{"$gte": from, "$lt": to},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "loggedAt", Value: -1}})

	var log domain.HabitLog
	if err := r.collection.FindOne(ctx, filter, findOptions).Decode(&log); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoHabitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureHabitIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "loggedAt", Value: -1}},
	})
	return err
}

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

const rehabCollectionName = "rehab_exercises"

type mongoRehabRepository struct {
	collection *mongo.Collection
}

// NewMongoRehabRepository creates a new rehab exercise repository.
func NewMongoRehabRepository(db *mongo.Database) repository.RehabRepository {
	return &mongoRehabRepository{
		collection: db.Collection(rehabCollectionName),
	}
}

func (r *mongoRehabRepository) Create(ctx context.Context, exercise *domain.RehabExercise) error {
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, exercise)
	return err
}

func (r *mongoRehabRepository) CreateMany(ctx context.Context, exercises []domain.RehabExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(exercises))
	for i := range exercises {
		exercises[i].CreatedAt = now
		exercises[i].UpdatedAt = now
		docs[i] = exercises[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoRehabRepository) GetByID(ctx context.Context, id string) (*domain.RehabExercise, error) {
	var exercise domain.RehabExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *mongoRehabRepository) ListByUser(ctx context.Context, userID string) ([]domain.RehabExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.RehabExercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update rewrites the prescription fields of an existing exercise.
func (r *mongoRehabRepository) Update(ctx context.Context, exercise *domain.RehabExercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": exercise.ID, "userId": exercise.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        exercise.Name,
			"category":    exercise.Category,
			"sets":        exercise.Sets,
			"reps":        exercise.Reps,
			"perSideSets": exercise.PerSideSets,
			"holdSeconds": exercise.HoldSeconds,
			"load":        exercise.Load,
			"bandColor":   exercise.BandColor,
			"time":        exercise.Time,
			"cues":        exercise.Cues,
			"updatedAt":   exercise.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRehabRepository) SetCompleted(ctx context.Context, id string, completed bool, date *time.Time) error {
	update := bson.M{
		"$set": bson.M{"completed": completed, "updatedAt": time.Now().UTC()},
	}
	if date != nil {
		update["$set"].(bson.M)["completedDate"] = *date
	} else {
		update["$unset"] = bson.M{"completedDate": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRehabRepository) ResetCompletedBefore(ctx context.Context, userID string, day time.Time) error {
	filter := bson.M{
		"userId":    userID,
		"completed": true,
		"$or": bson.A{
			bson.M{"completedDate": bson.M{"$lt": day}},
			bson.M{"completedDate": bson.M{"$exists": false}},
		},
	}
	update := bson.M{
		"$set":   bson.M{"completed": false, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"completedDate": ""},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// SetOrder assigns orderIndex by position in ids in one bulk write.
func (r *mongoRehabRepository) SetOrder(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(ids))
	for i, id := range ids {
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id, "userId": userID}).
			SetUpdate(bson.M{"$set": bson.M{"orderIndex": i}})
	}
	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return err
	}
	if int(result.MatchedCount) != len(ids) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRehabRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRehabRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureRehabIndexes creates necessary indexes for the rehab collection.
func EnsureRehabIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

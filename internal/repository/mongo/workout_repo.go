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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository keeps exercises and sets embedded in the workout document.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func (r *mongoWorkoutRepository) CreateMany(ctx context.Context, workouts []domain.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(workouts))
	for i := range workouts {
		workouts[i].CreatedAt = now
		workouts[i].UpdatedAt = now
		docs[i] = workouts[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByUser returns workouts dated within [from, to), oldest first.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lt": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// SetSetCompleted only matches when the set is in the opposite state, so of
// two identical concurrent toggles exactly one modifies the document. The
// sibling sets are read from the pre-image of that same write.
func (r *mongoWorkoutRepository) SetSetCompleted(ctx context.Context, workoutID, setID string, completed bool) (repository.SetToggle, error) {
	filter := bson.M{
		"_id": workoutID,
		"exercises.sets": bson.M{"$elemMatch": bson.M{
			"id":        setID,
			"completed": !completed,
		}},
	}
	update := bson.M{"$set": bson.M{
		"exercises.$[].sets.$[s].completed": completed,
		"updatedAt":                         time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"s.id": setID}}}).
		SetReturnDocument(options.Before)

	var before domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.SetToggle{}, nil
	}
	if err != nil {
		return repository.SetToggle{}, err
	}
	exIdx, _, ok := before.FindSet(setID)
	if !ok {
		return repository.SetToggle{Changed: true}, nil
	}
	return repository.SetToggle{
		Changed:        true,
		OthersComplete: before.Exercises[exIdx].OthersComplete(setID),
	}, nil
}

func (r *mongoWorkoutRepository) UpdateSet(ctx context.Context, workoutID, setID string, reps int, weight float64) error {
	filter := bson.M{"_id": workoutID, "exercises.sets.id": setID}
	update := bson.M{"$set": bson.M{
		"exercises.$[].sets.$[s].reps":   reps,
		"exercises.$[].sets.$[s].weight": weight,
		"updatedAt":                      time.Now().UTC(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"s.id": setID}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	update := bson.M{"$set": bson.M{
		"completed":   true,
		"completedAt": at,
		"updatedAt":   time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "completed": bson.M{"$ne": true}}, update)
	if err != nil {
		return false, err
	}
	if result.ModifiedCount == 1 {
		return true, nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *mongoWorkoutRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

package mongo

import (
	"context"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollectionName = "friend_activities"

type mongoActivityRepository struct {
	collection *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		// nested payload documents decode as maps so they render as JSON objects
		collection: db.Collection(activityCollectionName, options.Collection().
			SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})),
	}
}

func (r *mongoActivityRepository) Create(ctx context.Context, a *domain.FriendActivity) error {
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *mongoActivityRepository) ListByUsers(ctx context.Context, userIDs []string, offset, limit int) ([]domain.FriendActivity, error) {
	activities := []domain.FriendActivity{}
	if len(userIDs) == 0 {
		return activities, nil
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

package mongo

import (
	"context"
	"errors"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const friendshipCollectionName = "friendships"

type mongoFriendshipRepository struct {
	collection *mongo.Collection
}

func NewMongoFriendshipRepository(db *mongo.Database) repository.FriendshipRepository {
	return &mongoFriendshipRepository{
		collection: db.Collection(friendshipCollectionName),
	}
}

// Create relies on the unique pairKey index to reject a second row for a pair.
func (r *mongoFriendshipRepository) Create(ctx context.Context, f *domain.Friendship) error {
	f.PairKey = domain.PairKey(f.RequesterID, f.AddresseeID)
	if _, err := r.collection.InsertOne(ctx, f); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoFriendshipRepository) findOne(ctx context.Context, filter bson.M) (*domain.Friendship, error) {
	var f domain.Friendship
	if err := r.collection.FindOne(ctx, filter).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *mongoFriendshipRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoFriendshipRepository) GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error) {
	return r.findOne(ctx, bson.M{"pairKey": domain.PairKey(a, b)})
}

func (r *mongoFriendshipRepository) Update(ctx context.Context, f *domain.Friendship) error {
	update := bson.M{"$set": bson.M{
		"requesterId": f.RequesterID,
		"addresseeId": f.AddresseeID,
		"status":      f.Status,
		"createdAt":   f.CreatedAt,
		"respondedAt": f.RespondedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": f.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFriendshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns rows with the given status where userID is on either side.
func (r *mongoFriendshipRepository) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]domain.Friendship, error) {
	filter := bson.M{
		"status": status,
		"$or": bson.A{
			bson.M{"requesterId": userID},
			bson.M{"addresseeId": userID},
		},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	friendships := []domain.Friendship{}
	if err = cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

func EnsureFriendshipIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "requesterId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "addresseeId", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"gymbros/fitness-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every mongo repository over db.
func NewStore(client *mongo.Client, db *mongo.Database) repository.Store {
	return repository.Store{
		Users:       NewMongoUserRepository(db),
		Stats:       NewMongoStatsRepository(db),
		Workouts:    NewMongoWorkoutRepository(db),
		Rehab:       NewMongoRehabRepository(db),
		Habits:      NewMongoHabitRepository(db),
		Friendships: NewMongoFriendshipRepository(db),
		Activities:  NewMongoActivityRepository(db),
		Privacy:     NewMongoPrivacyRepository(db),
		GymPlans:    NewMongoGymPlanRepository(db),
		Migrate: func(ctx context.Context) error {
			return EnsureIndexes(ctx, db)
		},
		Close: func(ctx context.Context) error {
			return DisconnectDB(ctx, client)
		},
	}
}

// EnsureIndexes creates the indexes of every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := []struct {
		collection string
		fn         func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{workoutCollectionName, EnsureWorkoutIndexes},
		{rehabCollectionName, EnsureRehabIndexes},
		{habitCollectionName, EnsureHabitIndexes},
		{friendshipCollectionName, EnsureFriendshipIndexes},
		{activityCollectionName, EnsureActivityIndexes},
		{gymPlanCollectionName, EnsureGymPlanIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx, db.Collection(e.collection)); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", e.collection, err)
		}
		log.Debugf("indexes ensured for %s", e.collection)
	}
	return nil
}

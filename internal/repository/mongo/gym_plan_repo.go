package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gymPlanCollectionName = "gym_plans"

// gymPlanDocument stores the opaque plan JSON as strings.
type gymPlanDocument struct {
	domain.GymPlan `bson:",inline"`
	PlanContent    string `bson:"planContent"`
	WeeklySchedule string `bson:"weeklySchedule"`
}

func (d *gymPlanDocument) toDomain() *domain.GymPlan {
	plan := d.GymPlan
	plan.PlanContent = json.RawMessage(d.PlanContent)
	plan.WeeklySchedule = json.RawMessage(d.WeeklySchedule)
	return &plan
}

type mongoGymPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoGymPlanRepository creates a new gym plan repository.
func NewMongoGymPlanRepository(db *mongo.Database) repository.GymPlanRepository {
	return &mongoGymPlanRepository{
		collection: db.Collection(gymPlanCollectionName),
	}
}

func (r *mongoGymPlanRepository) Create(ctx context.Context, plan *domain.GymPlan) error {
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	doc := gymPlanDocument{
		GymPlan:        *plan,
		PlanContent:    string(plan.PlanContent),
		WeeklySchedule: string(plan.WeeklySchedule),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *mongoGymPlanRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.GymPlan, error) {
	var doc gymPlanDocument
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoGymPlanRepository) GetByID(ctx context.Context, id string) (*domain.GymPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoGymPlanRepository) GetActive(ctx context.Context, userID string) (*domain.GymPlan, error) {
	return r.findOne(ctx,
		bson.M{"userId": userID, "status": domain.PlanActive},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
}

func (r *mongoGymPlanRepository) ListByUser(ctx context.Context, userID string) ([]domain.GymPlan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.GymPlan{}
	for cursor.Next(ctx) {
		var doc gymPlanDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		plans = append(plans, *doc.toDomain())
	}
	return plans, cursor.Err()
}

func (r *mongoGymPlanRepository) ArchiveActive(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"status": domain.PlanArchived, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, bson.M{"userId": userID, "status": domain.PlanActive}, update)
	return err
}

func (r *mongoGymPlanRepository) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGymPlanIndexes creates necessary indexes. Call during startup.
func EnsureGymPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

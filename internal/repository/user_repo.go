package repository

import (
	"context"
	"time"

	"teampulse-backend/internal/database"
	"teampulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		collection: database.GetCollection("users"),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateUsername
		}
		return err
	}
	user.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, bson.M{})
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.list(ctx, bson.M{"role": role})
}

func (r *UserRepo) ListTeam(ctx context.Context, managerID bson.ObjectID) ([]models.User, error) {
	return r.list(ctx, bson.M{"manager_id": managerID})
}

func (r *UserRepo) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetManager overwrites the developer's manager edge in a single
// document update; the prior edge is discarded, not versioned.
func (r *UserRepo) SetManager(ctx context.Context, developerID bson.ObjectID, managerID *bson.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if managerID != nil {
		update["$set"].(bson.M)["manager_id"] = *managerID
	} else {
		update["$unset"] = bson.M{"manager_id": ""}
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": developerID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrUnknownUser
	}
	return nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "manager_id", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

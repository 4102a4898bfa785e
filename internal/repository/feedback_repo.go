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

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// Acknowledge flips is_acknowledged exactly once. The filter guards on
// the flag so two concurrent calls cannot both write acknowledged_at;
// the loser (or any later call) gets the record as already stored.
func (r *FeedbackRepo) Acknowledge(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_acknowledged": false},
		bson.M{"$set": bson.M{"is_acknowledged": true, "acknowledged_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&feedback)
	if err == nil {
		return &feedback, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	// Either the id is unknown or the record was already acknowledged.
	return r.FindByID(ctx, id)
}

func (r *FeedbackRepo) ListByReceiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error) {
	return r.list(ctx, bson.M{"receiver_id": userID})
}

func (r *FeedbackRepo) ListByGiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error) {
	return r.list(ctx, bson.M{"giver_id": userID})
}

func (r *FeedbackRepo) list(ctx context.Context, filter bson.M) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "giver_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BidRepository struct {
	collection *mongo.Collection
}

func NewBidRepository(db *mongo.Database) *BidRepository {
	return &BidRepository{collection: db.Collection("bids")}
}

func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	bid.ID = primitive.NewObjectID()
	bid.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, bid); err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bid, error) {
	var bid models.Bid
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bid)
	if err == mongo.ErrNoDocuments {
		return nil, models.NewNotFoundError("bid not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bid: %w", err)
	}
	return &bid, nil
}

func (r *BidRepository) ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]*models.Bid, error) {
	return r.list(ctx, bson.M{"taskId": taskID})
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID primitive.ObjectID) ([]*models.Bid, error) {
	return r.list(ctx, bson.M{"bidderId": bidderID})
}

func (r *BidRepository) list(ctx context.Context, filter bson.M) ([]*models.Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bids: %w", err)
	}
	defer cursor.Close(ctx)

	bids := make([]*models.Bid, 0)
	for cursor.Next(ctx) {
		var bid models.Bid
		if err := cursor.Decode(&bid); err != nil {
			return nil, fmt.Errorf("failed to decode bid: %w", err)
		}
		bids = append(bids, &bid)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bids, nil
}

func (r *BidRepository) HasPendingBid(ctx context.Context, taskID, bidderID primitive.ObjectID) (bool, error) {
	filter := bson.M{"taskId": taskID, "bidderId": bidderID, "status": models.BidStatusPending}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count bids: %w", err)
	}
	return count > 0, nil
}

func (r *BidRepository) UpdateStatusIf(ctx context.Context, bidID primitive.ObjectID, from, to models.BidStatus) (bool, error) {
	filter := bson.M{"_id": bidID, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update bid status: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *BidRepository) RejectPendingForTask(ctx context.Context, taskID, exceptBidID primitive.ObjectID) error {
	filter := bson.M{
		"taskId": taskID,
		"_id":    bson.M{"$ne": exceptBidID},
		"status": models.BidStatusPending,
	}
	update := bson.M{"$set": bson.M{"status": models.BidStatusRejected}}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to reject pending bids: %w", err)
	}
	return nil
}

func (r *BidRepository) Delete(ctx context.Context, bidID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": bidID})
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.NewNotFoundError("bid not found")
	}
	return nil
}

func (r *BidRepository) CountByBidder(ctx context.Context, bidderID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"bidderId": bidderID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	return count, nil
}

func (r *BidRepository) CountByBidderAndStatus(ctx context.Context, bidderID primitive.ObjectID, status models.BidStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"bidderId": bidderID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	return count, nil
}

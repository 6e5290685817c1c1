package repositories

import (
	"context"
	"fmt"
	"time"

	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentOrderRepository struct {
	collection *mongo.Collection
}

func NewPaymentOrderRepository(db *mongo.Database) *PaymentOrderRepository {
	return &PaymentOrderRepository{collection: db.Collection("payment_orders")}
}

func (r *PaymentOrderRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *PaymentOrderRepository) GetByExternalID(ctx context.Context, externalOrderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.collection.FindOne(ctx, bson.M{"externalOrderId": externalOrderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, models.NewNotFoundError("payment order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment order: %w", err)
	}
	return &order, nil
}

// MarkVerifiedIfCreated is the replay gate: only the first verification of an
// order matches the CREATED filter, every retry of the gateway callback sees
// no match.
func (r *PaymentOrderRepository) MarkVerifiedIfCreated(ctx context.Context, externalOrderID, paymentID string) (bool, error) {
	filter := bson.M{"externalOrderId": externalOrderID, "status": models.PaymentOrderCreated}
	update := bson.M{"$set": bson.M{
		"status":     models.PaymentOrderVerified,
		"paymentId":  paymentID,
		"verifiedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to verify payment order: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *PaymentOrderRepository) HasActiveForBid(ctx context.Context, bidID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"bidId":  bidID,
		"status": bson.M{"$in": bson.A{models.PaymentOrderCreated, models.PaymentOrderVerified}},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count payment orders: %w", err)
	}
	return count > 0, nil
}

func (r *PaymentOrderRepository) MarkFailed(ctx context.Context, externalOrderID string) error {
	update := bson.M{"$set": bson.M{"status": models.PaymentOrderFailed}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"externalOrderId": externalOrderID}, update); err != nil {
		return fmt.Errorf("failed to mark payment order failed: %w", err)
	}
	return nil
}

func (r *PaymentOrderRepository) SumVerified(ctx context.Context) (models.Money, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.PaymentOrderVerified}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Money{}, fmt.Errorf("failed to aggregate settled volume: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total models.Money `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return models.Money{}, fmt.Errorf("failed to decode settled volume: %w", err)
		}
		return result.Total, nil
	}
	return models.MoneyFromInt(0), cursor.Err()
}

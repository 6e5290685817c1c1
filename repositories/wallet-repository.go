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

type WalletRepository struct {
	collection *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{collection: db.Collection("wallets")}
}

func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	wallet.ID = primitive.NewObjectID()
	wallet.CreatedAt = time.Now()
	if wallet.Transactions == nil {
		wallet.Transactions = []models.Transaction{}
	}

	if _, err := r.collection.InsertOne(ctx, wallet); err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err == mongo.ErrNoDocuments {
		return nil, models.NewNotFoundError("wallet not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wallet: %w", err)
	}
	return &wallet, nil
}

// Credit raises the balance and appends the ledger entry in a single document
// update, so the balance can never drift from the ledger.
func (r *WalletRepository) Credit(ctx context.Context, userID primitive.ObjectID, txn models.Transaction) error {
	update := bson.M{
		"$inc":  bson.M{"balance": txn.Amount},
		"$push": bson.M{"transactions": txn},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("wallet not found")
	}
	return nil
}

// DebitIfSufficient only matches while the balance covers the amount, which
// keeps the non-negative balance invariant under concurrent debits.
func (r *WalletRepository) DebitIfSufficient(ctx context.Context, userID primitive.ObjectID, txn models.Transaction) (bool, error) {
	filter := bson.M{
		"userId":  userID,
		"balance": bson.M{"$gte": txn.Amount},
	}
	update := bson.M{
		"$inc":  bson.M{"balance": models.NewMoney(txn.Amount.Decimal.Neg())},
		"$push": bson.M{"transactions": txn},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to debit wallet: %w", err)
	}
	return result.MatchedCount == 1, nil
}

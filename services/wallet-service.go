package services

import (
	"context"
	"time"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// addMoneyCap is the per-top-up limit, mirroring the gateway's own checkout
// ceiling.
var addMoneyCap = models.MoneyFromInt(100000)

type WalletService struct {
	wallets models.WalletRepository
}

func NewWalletService(wallets models.WalletRepository) *WalletService {
	return &WalletService{wallets: wallets}
}

// GetWallet returns the user's wallet, creating an empty one on first access.
func (s *WalletService) GetWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if _, notFound := err.(*models.NotFoundError); !notFound {
		return nil, err
	}

	wallet = &models.Wallet{
		UserID:       userID,
		Balance:      models.MoneyFromInt(0),
		Transactions: []models.Transaction{},
	}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *WalletService) AddMoney(ctx context.Context, userID primitive.ObjectID, amount models.Money) (*models.Wallet, error) {
	if !amount.IsPositive() {
		return nil, models.NewValidationError("amount must be greater than zero")
	}
	if amount.GreaterThan(addMoneyCap.Decimal) {
		return nil, models.NewValidationError("amount exceeds the top-up limit of 100000")
	}

	// Ensure the wallet exists before crediting it.
	if _, err := s.GetWallet(ctx, userID); err != nil {
		return nil, err
	}

	txn := models.Transaction{
		ID:        uuid.New().String(),
		Type:      models.TransactionCredit,
		Amount:    amount,
		Reference: "wallet top-up",
		CreatedAt: time.Now(),
	}
	if err := s.wallets.Credit(ctx, userID, txn); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: WALLET_CREDITED, Description: Wallet of user %s credited %s", userID.Hex(), amount.String())
	return s.wallets.GetByUser(ctx, userID)
}

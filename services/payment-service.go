package services

import (
	"context"
	"fmt"
	"time"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"
	"marketplace-project/backend/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentService struct {
	orders  models.PaymentOrderRepository
	bids    models.BidRepository
	tasks   models.TaskRepository
	wallets models.WalletRepository
	gateway PaymentGateway
	keyID   string
	secret  string
}

func NewPaymentService(
	orders models.PaymentOrderRepository,
	bids models.BidRepository,
	tasks models.TaskRepository,
	wallets models.WalletRepository,
	gateway PaymentGateway,
	keyID, secret string,
) *PaymentService {
	return &PaymentService{
		orders:  orders,
		bids:    bids,
		tasks:   tasks,
		wallets: wallets,
		gateway: gateway,
		keyID:   keyID,
		secret:  secret,
	}
}

// CreateOrderResponse is what the checkout widget needs to open.
type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// CreateOrder registers a checkout with the gateway for an accepted bid. No
// funds move here.
func (s *PaymentService) CreateOrder(ctx context.Context, bidID, payerID primitive.ObjectID, amount models.Money) (*CreateOrderResponse, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidStatusAccepted {
		return nil, models.NewStateError(fmt.Sprintf("bid is %s, only accepted bids can be paid", bid.Status))
	}

	task, err := s.tasks.GetByID(ctx, bid.TaskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != payerID {
		return nil, models.NewAuthorizationError("only the task poster can pay for this bid")
	}
	if !amount.Equal(bid.Amount) {
		return nil, models.NewValidationError("payment amount does not match the bid amount")
	}

	// One live order per bid. FAILED orders are dead and may be replaced.
	active, err := s.orders.HasActiveForBid(ctx, bid.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, models.NewStateError("an open payment order already exists for this bid")
	}

	receipt := uuid.New().String()
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amount, receipt)
	if err != nil {
		return nil, err
	}

	order := &models.PaymentOrder{
		BidID:           bid.ID,
		TaskID:          task.ID,
		PayerID:         payerID,
		PayeeID:         bid.BidderID,
		Amount:          amount,
		ExternalOrderID: gatewayOrder.OrderID,
		Receipt:         receipt,
		Status:          models.PaymentOrderCreated,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PAYMENT_ORDER_CREATED, Description: Order %s created for bid %s", gatewayOrder.OrderID, bid.ID.Hex())
	return &CreateOrderResponse{
		OrderID:  gatewayOrder.OrderID,
		Amount:   gatewayOrder.Amount,
		Currency: gatewayOrder.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPaymentInput carries the gateway callback fields.
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// SettlementResult reports the outcome of a verified payment.
type SettlementResult struct {
	Success        bool   `json:"success"`
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	BidID          string `json:"bidId"`
	AlreadySettled bool   `json:"alreadySettled,omitempty"`
}

// VerifyPayment settles a gateway payment exactly once. Two gates guard the
// ledger: the order's CREATED -> VERIFIED compare-and-set absorbs replayed
// callbacks for the same order, and the bid's ACCEPTED -> PAID compare-and-set
// stops a second order for the same bid from settling it again.
func (s *PaymentService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*SettlementResult, error) {
	order, err := s.orders.GetByExternalID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if !utils.VerifyPaymentSignature(input.OrderID, input.PaymentID, input.Signature, s.secret) {
		logging.Logger.Warnf("Event ID: PAYMENT_SIGNATURE_MISMATCH, Description: Signature mismatch for order %s", input.OrderID)
		return nil, models.NewSecurityError("payment signature verification failed")
	}

	won, err := s.orders.MarkVerifiedIfCreated(ctx, input.OrderID, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the CAS to a concurrent delivery. The pre-CAS read may be
		// stale, so decide on a fresh one.
		order, err = s.orders.GetByExternalID(ctx, input.OrderID)
		if err != nil {
			return nil, err
		}
		if order.Status == models.PaymentOrderVerified {
			return &SettlementResult{
				Success:        true,
				OrderID:        order.ExternalOrderID,
				PaymentID:      order.PaymentID,
				BidID:          order.BidID.Hex(),
				AlreadySettled: true,
			}, nil
		}
		return nil, models.NewStateError("payment order is no longer payable")
	}

	// The bid's ACCEPTED -> PAID compare-and-set is the per-bid gate: a second
	// verified order for the same bid loses it and moves no money.
	paid, err := s.bids.UpdateStatusIf(ctx, order.BidID, models.BidStatusAccepted, models.BidStatusPaid)
	if err != nil {
		return nil, err
	}
	if !paid {
		if err := s.orders.MarkFailed(ctx, order.ExternalOrderID); err != nil {
			return nil, err
		}
		logging.Logger.Warnf("Event ID: PAYMENT_BID_ALREADY_SETTLED, Description: Bid %s already left ACCEPTED, order %s failed without ledger writes", order.BidID.Hex(), order.ExternalOrderID)
		return nil, models.NewStateError("bid has already been settled")
	}

	reference := fmt.Sprintf("payment for bid %s (order %s)", order.BidID.Hex(), order.ExternalOrderID)

	debited, err := s.wallets.DebitIfSufficient(ctx, order.PayerID, models.Transaction{
		ID:        uuid.New().String(),
		Type:      models.TransactionDebit,
		Amount:    order.Amount,
		Reference: reference,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if !debited {
		// No ledger entry landed. Release the bid and fail the order so a
		// fresh one can be created after a top-up.
		if _, err := s.bids.UpdateStatusIf(ctx, order.BidID, models.BidStatusPaid, models.BidStatusAccepted); err != nil {
			return nil, err
		}
		if err := s.orders.MarkFailed(ctx, order.ExternalOrderID); err != nil {
			return nil, err
		}
		logging.Logger.Warnf("Event ID: PAYMENT_INSUFFICIENT_FUNDS, Description: Payer %s cannot cover order %s", order.PayerID.Hex(), order.ExternalOrderID)
		return nil, models.NewStateError("insufficient wallet balance to settle the payment")
	}

	if err := s.wallets.Credit(ctx, order.PayeeID, models.Transaction{
		ID:        uuid.New().String(),
		Type:      models.TransactionCredit,
		Amount:    order.Amount,
		Reference: reference,
		CreatedAt: time.Now(),
	}); err != nil {
		// The debit landed but the credit did not. Refund the payer so the
		// ledgers balance, then release the bid and fail the order.
		if refundErr := s.wallets.Credit(ctx, order.PayerID, models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionCredit,
			Amount:    order.Amount,
			Reference: fmt.Sprintf("refund for order %s", order.ExternalOrderID),
			CreatedAt: time.Now(),
		}); refundErr != nil {
			logging.Logger.Errorf("Event ID: PAYMENT_REFUND_FAILED, Description: Order %s debited payer %s but both credit and refund failed: %v", order.ExternalOrderID, order.PayerID.Hex(), refundErr)
			return nil, refundErr
		}
		if _, casErr := s.bids.UpdateStatusIf(ctx, order.BidID, models.BidStatusPaid, models.BidStatusAccepted); casErr != nil {
			return nil, casErr
		}
		if failErr := s.orders.MarkFailed(ctx, order.ExternalOrderID); failErr != nil {
			return nil, failErr
		}
		logging.Logger.Warnf("Event ID: PAYMENT_CREDIT_FAILED, Description: Order %s failed after refunding payer %s: %v", order.ExternalOrderID, order.PayerID.Hex(), err)
		return nil, err
	}

	logging.Logger.Infof("Event ID: PAYMENT_SETTLED, Description: Order %s settled, bid %s paid", order.ExternalOrderID, order.BidID.Hex())
	return &SettlementResult{
		Success:   true,
		OrderID:   order.ExternalOrderID,
		PaymentID: input.PaymentID,
		BidID:     order.BidID.Hex(),
	}, nil
}

package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository interfaces the services depend on. The mongo implementations
// live in the repositories package; tests substitute in-memory fakes.

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Task, error)

	// ListOpen returns OPEN tasks, optionally filtered by category and/or a
	// keyword over title and description. Newest first.
	ListOpen(ctx context.Context, category, keyword string) ([]*Task, error)
	ListByPoster(ctx context.Context, posterID primitive.ObjectID) ([]*Task, error)
	ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]*Task, error)

	UpdateDetails(ctx context.Context, task *Task) error

	// AssignIfOpen atomically moves the task OPEN -> ASSIGNED and records the
	// accepted bid and bidder. Returns false when the task was no longer OPEN,
	// which is how a lost acceptance race is detected.
	AssignIfOpen(ctx context.Context, taskID, bidID, bidderID primitive.ObjectID) (bool, error)

	// UpdateStatusIf is a compare-and-set on the task status.
	UpdateStatusIf(ctx context.Context, taskID primitive.ObjectID, from, to TaskStatus) (bool, error)

	IncrementBidCount(ctx context.Context, taskID primitive.ObjectID, delta int) error
	CountByStatus(ctx context.Context, status TaskStatus) (int64, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

type BidRepository interface {
	Create(ctx context.Context, bid *Bid) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Bid, error)

	// ListByTask and ListByBidder return bids newest first.
	ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]*Bid, error)
	ListByBidder(ctx context.Context, bidderID primitive.ObjectID) ([]*Bid, error)

	// HasPendingBid reports whether the bidder already has a PENDING bid on
	// the task.
	HasPendingBid(ctx context.Context, taskID, bidderID primitive.ObjectID) (bool, error)

	// UpdateStatusIf is a compare-and-set on the bid status.
	UpdateStatusIf(ctx context.Context, bidID primitive.ObjectID, from, to BidStatus) (bool, error)

	// RejectPendingForTask rejects every PENDING bid on the task except the
	// given one.
	RejectPendingForTask(ctx context.Context, taskID, exceptBidID primitive.ObjectID) error

	Delete(ctx context.Context, bidID primitive.ObjectID) error
	CountByBidder(ctx context.Context, bidderID primitive.ObjectID) (int64, error)
	CountByBidderAndStatus(ctx context.Context, bidderID primitive.ObjectID, status BidStatus) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, passwordHash string) error
	SearchBySkill(ctx context.Context, skill string) ([]*User, error)
	TopRated(ctx context.Context, limit int64) ([]*User, error)
	UpdateRating(ctx context.Context, userID primitive.ObjectID, rating float64, count int) error
	Count(ctx context.Context) (int64, error)
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *Wallet) error
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*Wallet, error)

	// Credit appends a CREDIT entry and raises the balance in one atomic
	// document update.
	Credit(ctx context.Context, userID primitive.ObjectID, txn Transaction) error

	// DebitIfSufficient appends a DEBIT entry and lowers the balance, but only
	// when the current balance covers the amount. Returns false otherwise.
	DebitIfSufficient(ctx context.Context, userID primitive.ObjectID, txn Transaction) (bool, error)
}

type PaymentOrderRepository interface {
	Create(ctx context.Context, order *PaymentOrder) error
	GetByExternalID(ctx context.Context, externalOrderID string) (*PaymentOrder, error)

	// MarkVerifiedIfCreated is the exactly-once gate for settlement: a
	// compare-and-set moving the order CREATED -> VERIFIED. Returns false when
	// the order already left CREATED.
	MarkVerifiedIfCreated(ctx context.Context, externalOrderID, paymentID string) (bool, error)

	// HasActiveForBid reports whether the bid already has a CREATED or
	// VERIFIED order. FAILED orders do not count.
	HasActiveForBid(ctx context.Context, bidID primitive.ObjectID) (bool, error)

	MarkFailed(ctx context.Context, externalOrderID string) error
	SumVerified(ctx context.Context) (Money, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	ListByReviewee(ctx context.Context, userID primitive.ObjectID) ([]*Review, error)
	ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExistsForTask(ctx context.Context, taskID, reviewerID primitive.ObjectID) (bool, error)

	// AggregateForUser returns the average rating and review count for a user.
	AggregateForUser(ctx context.Context, userID primitive.ObjectID) (float64, int, error)
}

package services

import (
	"context"
	"fmt"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BidService struct {
	bids  models.BidRepository
	tasks models.TaskRepository
	users models.UserRepository
}

func NewBidService(bids models.BidRepository, tasks models.TaskRepository, users models.UserRepository) *BidService {
	return &BidService{bids: bids, tasks: tasks, users: users}
}

type PlaceBidInput struct {
	TaskID        primitive.ObjectID
	Amount        models.Money
	Message       string
	EstimatedTime string
}

func (s *BidService) PlaceBid(ctx context.Context, bidderID primitive.ObjectID, input PlaceBidInput) (*models.Bid, error) {
	if !input.Amount.IsPositive() {
		return nil, models.NewValidationError("bid amount must be greater than zero")
	}

	task, err := s.tasks.GetByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusOpen {
		return nil, models.NewStateError(fmt.Sprintf("task is %s and no longer accepts bids", task.Status))
	}
	if task.PosterID == bidderID {
		return nil, models.NewAuthorizationError("you cannot bid on your own task")
	}

	exists, err := s.bids.HasPendingBid(ctx, task.ID, bidderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("you already have a pending bid on this task")
	}

	bidder, err := s.users.GetByID(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	bid := &models.Bid{
		TaskID:        task.ID,
		BidderID:      bidder.ID,
		BidderName:    bidder.Name,
		Amount:        input.Amount,
		Message:       input.Message,
		EstimatedTime: input.EstimatedTime,
		Status:        models.BidStatusPending,
	}

	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, err
	}
	if err := s.tasks.IncrementBidCount(ctx, task.ID, 1); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: BID_PLACED, Description: Bid %s placed on task %s by %s", bid.ID.Hex(), task.ID.Hex(), bidder.ID.Hex())
	return bid, nil
}

// AcceptBid accepts one PENDING bid on an OPEN task. The task's OPEN ->
// ASSIGNED compare-and-set is the exclusivity gate: when two acceptances race,
// exactly one passes it and the other gets a ConflictError. Every other
// PENDING bid on the task is rejected as part of the acceptance.
func (s *BidService) AcceptBid(ctx context.Context, bidID, actorID primitive.ObjectID) (*models.Bid, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, bid.TaskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can accept bids on this task")
	}
	if bid.Status != models.BidStatusPending {
		return nil, models.NewStateError(fmt.Sprintf("bid is %s and cannot be accepted", bid.Status))
	}
	if task.Status != models.TaskStatusOpen {
		return nil, models.NewStateError(fmt.Sprintf("task is %s and bids can no longer be accepted", task.Status))
	}

	assigned, err := s.tasks.AssignIfOpen(ctx, task.ID, bid.ID, bid.BidderID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, models.NewConflictError("another bid was accepted first")
	}

	if _, err := s.bids.UpdateStatusIf(ctx, bid.ID, models.BidStatusPending, models.BidStatusAccepted); err != nil {
		return nil, err
	}
	if err := s.bids.RejectPendingForTask(ctx, task.ID, bid.ID); err != nil {
		return nil, err
	}

	bid.Status = models.BidStatusAccepted
	logging.Logger.Infof("Event ID: BID_ACCEPTED, Description: Bid %s accepted on task %s, task assigned to %s", bid.ID.Hex(), task.ID.Hex(), bid.BidderID.Hex())
	return bid, nil
}

func (s *BidService) RejectBid(ctx context.Context, bidID, actorID primitive.ObjectID) (*models.Bid, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, bid.TaskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can reject bids on this task")
	}
	if bid.Status != models.BidStatusPending {
		return nil, models.NewStateError(fmt.Sprintf("bid is %s and cannot be rejected", bid.Status))
	}

	updated, err := s.bids.UpdateStatusIf(ctx, bid.ID, models.BidStatusPending, models.BidStatusRejected)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, models.NewConflictError("bid status changed concurrently")
	}

	bid.Status = models.BidStatusRejected
	logging.Logger.Infof("Event ID: BID_REJECTED, Description: Bid %s rejected on task %s", bid.ID.Hex(), task.ID.Hex())
	return bid, nil
}

// WithdrawBid lets a bidder delete their own PENDING bid.
func (s *BidService) WithdrawBid(ctx context.Context, bidID, actorID primitive.ObjectID) error {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return err
	}
	if bid.BidderID != actorID {
		return models.NewAuthorizationError("only the bidder can withdraw this bid")
	}
	if bid.Status != models.BidStatusPending {
		return models.NewStateError(fmt.Sprintf("bid is %s and cannot be withdrawn", bid.Status))
	}

	if err := s.bids.Delete(ctx, bid.ID); err != nil {
		return err
	}
	if err := s.tasks.IncrementBidCount(ctx, bid.TaskID, -1); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: BID_WITHDRAWN, Description: Bid %s withdrawn from task %s", bid.ID.Hex(), bid.TaskID.Hex())
	return nil
}

// GetBidsForTask returns a task's bids, newest first. Restricted to the
// poster, who is the only party that sees competing bids.
func (s *BidService) GetBidsForTask(ctx context.Context, taskID, actorID primitive.ObjectID) ([]*models.Bid, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can view bids on this task")
	}
	return s.bids.ListByTask(ctx, taskID)
}

func (s *BidService) GetMyBids(ctx context.Context, bidderID primitive.ObjectID) ([]*models.Bid, error) {
	return s.bids.ListByBidder(ctx, bidderID)
}

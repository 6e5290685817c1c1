package services

import (
	"context"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviews models.ReviewRepository
	tasks   models.TaskRepository
	users   models.UserRepository
}

func NewReviewService(reviews models.ReviewRepository, tasks models.TaskRepository, users models.UserRepository) *ReviewService {
	return &ReviewService{reviews: reviews, tasks: tasks, users: users}
}

type SubmitReviewInput struct {
	TaskID     primitive.ObjectID
	RevieweeID primitive.ObjectID
	Rating     int
	Comment    string
}

// SubmitReview lets the two participants of a COMPLETED task review each
// other, once each.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewerID primitive.ObjectID, input SubmitReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}

	task, err := s.tasks.GetByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusCompleted {
		return nil, models.NewStateError("reviews can only be left on completed tasks")
	}

	isPoster := task.PosterID == reviewerID
	isAssignee := task.AssignedTo != nil && *task.AssignedTo == reviewerID
	if !isPoster && !isAssignee {
		return nil, models.NewAuthorizationError("only task participants can leave a review")
	}

	// The reviewee must be the other participant.
	var expected primitive.ObjectID
	if isPoster {
		if task.AssignedTo == nil {
			return nil, models.NewStateError("task has no assigned tasker to review")
		}
		expected = *task.AssignedTo
	} else {
		expected = task.PosterID
	}
	if input.RevieweeID != expected {
		return nil, models.NewValidationError("reviewee must be the other participant of the task")
	}

	exists, err := s.reviews.ExistsForTask(ctx, task.ID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("you have already reviewed this task")
	}

	reviewer, err := s.users.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		TaskID:       task.ID,
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.Name,
		RevieweeID:   input.RevieweeID,
		Rating:       input.Rating,
		Comment:      input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, input.RevieweeID); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: REVIEW_SUBMITTED, Description: Review %s submitted for user %s on task %s", review.ID.Hex(), input.RevieweeID.Hex(), task.ID.Hex())
	return review, nil
}

func (s *ReviewService) GetReviewsForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Review, error) {
	return s.reviews.ListByReviewee(ctx, userID)
}

func (s *ReviewService) GetReviewsForTask(ctx context.Context, taskID primitive.ObjectID) ([]*models.Review, error) {
	return s.reviews.ListByTask(ctx, taskID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, actorID primitive.ObjectID) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != actorID {
		return models.NewAuthorizationError("only the author can delete this review")
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	return s.refreshRating(ctx, review.RevieweeID)
}

func (s *ReviewService) refreshRating(ctx context.Context, userID primitive.ObjectID) error {
	average, count, err := s.reviews.AggregateForUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.users.UpdateRating(ctx, userID, average, count)
}

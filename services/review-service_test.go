package services

import (
	"context"
	"testing"
	"time"

	"marketplace-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reviewFixture struct {
	svc     *ReviewService
	reviews *fakeReviewRepo
	tasks   *fakeTaskRepo
	users   *fakeUserRepo
	poster  *models.User
	tasker  *models.User
	task    *models.Task
}

// newReviewFixture sets up a COMPLETED task between a poster and a tasker.
func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()

	reviews := newFakeReviewRepo()
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()

	poster := &models.User{Name: "Priya", Role: models.RolePoster}
	tasker := &models.User{Name: "Ravi", Role: models.RoleTasker}
	require.NoError(t, users.Create(ctx, poster))
	require.NoError(t, users.Create(ctx, tasker))

	task := &models.Task{
		Title:    "Mow the lawn",
		Category: "Gardening",
		Budget:   models.MoneyFromInt(600),
		PosterID: poster.ID,
		Status:   models.TaskStatusOpen,
		Deadline: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, tasks.Create(ctx, task))

	_, err := tasks.AssignIfOpen(ctx, task.ID, primitive.NewObjectID(), tasker.ID)
	require.NoError(t, err)
	_, err = tasks.UpdateStatusIf(ctx, task.ID, models.TaskStatusAssigned, models.TaskStatusInProgress)
	require.NoError(t, err)
	_, err = tasks.UpdateStatusIf(ctx, task.ID, models.TaskStatusInProgress, models.TaskStatusCompleted)
	require.NoError(t, err)

	return &reviewFixture{
		svc:     NewReviewService(reviews, tasks, users),
		reviews: reviews,
		tasks:   tasks,
		users:   users,
		poster:  poster,
		tasker:  tasker,
		task:    task,
	}
}

func TestSubmitReviewUpdatesRating(t *testing.T) {
	f := newReviewFixture(t)

	review, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
		TaskID:     f.task.ID,
		RevieweeID: f.tasker.ID,
		Rating:     4,
		Comment:    "Quick and tidy",
	})
	require.NoError(t, err)
	assert.Equal(t, f.poster.Name, review.ReviewerName)

	tasker, err := f.users.GetByID(context.Background(), f.tasker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, tasker.Rating)
	assert.Equal(t, 1, tasker.RatingCount)
}

func TestSubmitReviewBothDirections(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
		TaskID: f.task.ID, RevieweeID: f.tasker.ID, Rating: 5,
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(context.Background(), f.tasker.ID, SubmitReviewInput{
		TaskID: f.task.ID, RevieweeID: f.poster.ID, Rating: 3,
	})
	require.NoError(t, err)

	poster, err := f.users.GetByID(context.Background(), f.poster.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, poster.Rating)
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	f := newReviewFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
			TaskID: f.task.ID, RevieweeID: f.tasker.ID, Rating: rating,
		})
		assert.IsType(t, &models.ValidationError{}, err)
	}
}

func TestSubmitReviewOnlyCompletedTask(t *testing.T) {
	f := newReviewFixture(t)

	open := &models.Task{Title: "Other", PosterID: f.poster.ID, Status: models.TaskStatusOpen}
	require.NoError(t, f.tasks.Create(context.Background(), open))

	_, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
		TaskID: open.ID, RevieweeID: f.tasker.ID, Rating: 4,
	})
	assert.IsType(t, &models.StateError{}, err)
}

func TestSubmitReviewOnlyParticipants(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), primitive.NewObjectID(), SubmitReviewInput{
		TaskID: f.task.ID, RevieweeID: f.tasker.ID, Rating: 4,
	})
	assert.IsType(t, &models.AuthorizationError{}, err)
}

func TestSubmitReviewRevieweeMustBeCounterpart(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
		TaskID: f.task.ID, RevieweeID: primitive.NewObjectID(), Rating: 4,
	})
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestSubmitReviewOncePerTask(t *testing.T) {
	f := newReviewFixture(t)

	input := SubmitReviewInput{TaskID: f.task.ID, RevieweeID: f.tasker.ID, Rating: 4}
	_, err := f.svc.SubmitReview(context.Background(), f.poster.ID, input)
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(context.Background(), f.poster.ID, input)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	f := newReviewFixture(t)

	review, err := f.svc.SubmitReview(context.Background(), f.poster.ID, SubmitReviewInput{
		TaskID: f.task.ID, RevieweeID: f.tasker.ID, Rating: 2,
	})
	require.NoError(t, err)

	// Only the author can delete.
	err = f.svc.DeleteReview(context.Background(), review.ID, f.tasker.ID)
	assert.IsType(t, &models.AuthorizationError{}, err)

	require.NoError(t, f.svc.DeleteReview(context.Background(), review.ID, f.poster.ID))

	tasker, err := f.users.GetByID(context.Background(), f.tasker.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tasker.Rating)
	assert.Equal(t, 0, tasker.RatingCount)
}

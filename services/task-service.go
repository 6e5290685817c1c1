package services

import (
	"context"
	"fmt"
	"time"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	tasks models.TaskRepository
	users models.UserRepository
}

func NewTaskService(tasks models.TaskRepository, users models.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// CreateTaskInput carries the poster-supplied task attributes.
type CreateTaskInput struct {
	Title          string
	Description    string
	Category       string
	Budget         models.Money
	Location       *models.Location
	Deadline       time.Time
	RequiredSkills []string
}

func (s *TaskService) CreateTask(ctx context.Context, posterID primitive.ObjectID, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if input.Category == "" {
		return nil, models.NewValidationError("category is required")
	}
	if !input.Budget.IsPositive() {
		return nil, models.NewValidationError("budget must be greater than zero")
	}
	if input.Location == nil {
		return nil, models.NewValidationError("location is required")
	}
	if input.Deadline.Before(time.Now()) {
		return nil, models.NewValidationError("deadline must be in the future")
	}

	poster, err := s.users.GetByID(ctx, posterID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Budget:         input.Budget,
		Location:       input.Location,
		Deadline:       input.Deadline,
		RequiredSkills: input.RequiredSkills,
		PosterID:       poster.ID,
		PosterName:     poster.Name,
		Status:         models.TaskStatusOpen,
		BidCount:       0,
	}
	if task.RequiredSkills == nil {
		task.RequiredSkills = []string{}
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by poster %s", task.ID.Hex(), poster.ID.Hex())
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

func (s *TaskService) ListOpenTasks(ctx context.Context, category, keyword string) ([]*models.Task, error) {
	return s.tasks.ListOpen(ctx, category, keyword)
}

func (s *TaskService) ListMyTasks(ctx context.Context, posterID primitive.ObjectID) ([]*models.Task, error) {
	return s.tasks.ListByPoster(ctx, posterID)
}

func (s *TaskService) ListAssignedTasks(ctx context.Context, userID primitive.ObjectID) ([]*models.Task, error) {
	return s.tasks.ListAssignedTo(ctx, userID)
}

// UpdateTask edits an OPEN task's attributes. Assigned or finished work is
// frozen.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID primitive.ObjectID, input CreateTaskInput) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can edit this task")
	}
	if task.Status != models.TaskStatusOpen {
		return nil, models.NewStateError(fmt.Sprintf("task in status %s cannot be edited", task.Status))
	}
	if !input.Budget.IsPositive() {
		return nil, models.NewValidationError("budget must be greater than zero")
	}
	if input.Title == "" {
		return nil, models.NewValidationError("title is required")
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Category = input.Category
	task.Budget = input.Budget
	if input.Location != nil {
		task.Location = input.Location
	}
	if !input.Deadline.IsZero() {
		task.Deadline = input.Deadline
	}
	if input.RequiredSkills != nil {
		task.RequiredSkills = input.RequiredSkills
	}

	if err := s.tasks.UpdateDetails(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CancelTask moves an OPEN or ASSIGNED task to the terminal CANCELLED state.
func (s *TaskService) CancelTask(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can cancel this task")
	}
	if !task.CanTransitionTo(models.TaskStatusCancelled) {
		return nil, models.NewStateError(fmt.Sprintf("task in status %s cannot be cancelled", task.Status))
	}

	updated, err := s.tasks.UpdateStatusIf(ctx, task.ID, task.Status, models.TaskStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, models.NewConflictError("task status changed concurrently")
	}

	task.Status = models.TaskStatusCancelled
	logging.Logger.Infof("Event ID: TASK_CANCELLED, Description: Task %s cancelled by poster %s", task.ID.Hex(), actorID.Hex())
	return task, nil
}

// StartTask moves an ASSIGNED task to IN_PROGRESS. Both the poster and the
// assigned bidder may start work.
func (s *TaskService) StartTask(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.Task, error) {
	return s.transition(ctx, taskID, actorID, models.TaskStatusAssigned, models.TaskStatusInProgress)
}

// CompleteTask moves an IN_PROGRESS task to COMPLETED.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.Task, error) {
	return s.transition(ctx, taskID, actorID, models.TaskStatusInProgress, models.TaskStatusCompleted)
}

func (s *TaskService) transition(ctx context.Context, taskID, actorID primitive.ObjectID, from, to models.TaskStatus) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isPoster := task.PosterID == actorID
	isAssignee := task.AssignedTo != nil && *task.AssignedTo == actorID
	if !isPoster && !isAssignee {
		return nil, models.NewAuthorizationError("only the poster or the assigned tasker can update this task")
	}
	if task.Status != from {
		return nil, models.NewStateError(fmt.Sprintf("task must be %s, current status is %s", from, task.Status))
	}

	updated, err := s.tasks.UpdateStatusIf(ctx, task.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, models.NewConflictError("task status changed concurrently")
	}

	task.Status = to
	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved %s -> %s by %s", task.ID.Hex(), from, to, actorID.Hex())
	return task, nil
}

// ListCategories returns the category list with current task counts.
func (s *TaskService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(models.Categories))
	for _, name := range models.Categories {
		count, err := s.tasks.CountByCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, models.Category{Name: name, TaskCount: count})
	}
	return categories, nil
}

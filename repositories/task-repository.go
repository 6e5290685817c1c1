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

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{collection: db.Collection("tasks")}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, models.NewNotFoundError("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) ListOpen(ctx context.Context, category, keyword string) ([]*models.Task, error) {
	filter := bson.M{"status": models.TaskStatusOpen}
	if category != "" {
		filter["category"] = category
	}
	if keyword != "" {
		regex := primitive.Regex{Pattern: keyword, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}
	return r.list(ctx, filter)
}

func (r *TaskRepository) ListByPoster(ctx context.Context, posterID primitive.ObjectID) ([]*models.Task, error) {
	return r.list(ctx, bson.M{"posterId": posterID})
}

func (r *TaskRepository) ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]*models.Task, error) {
	return r.list(ctx, bson.M{"assignedTo": userID})
}

func (r *TaskRepository) list(ctx context.Context, filter bson.M) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*models.Task, 0)
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) UpdateDetails(ctx context.Context, task *models.Task) error {
	update := bson.M{"$set": bson.M{
		"title":          task.Title,
		"description":    task.Description,
		"category":       task.Category,
		"budget":         task.Budget,
		"location":       task.Location,
		"deadline":       task.Deadline,
		"requiredSkills": task.RequiredSkills,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("task not found")
	}
	return nil
}

// AssignIfOpen is the acceptance exclusivity gate: the filter only matches
// while the task is still OPEN, so two concurrent acceptances cannot both
// succeed.
func (r *TaskRepository) AssignIfOpen(ctx context.Context, taskID, bidID, bidderID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": taskID, "status": models.TaskStatusOpen}
	update := bson.M{"$set": bson.M{
		"status":        models.TaskStatusAssigned,
		"assignedTo":    bidderID,
		"acceptedBidId": bidID,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to assign task: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *TaskRepository) UpdateStatusIf(ctx context.Context, taskID primitive.ObjectID, from, to models.TaskStatus) (bool, error) {
	filter := bson.M{"_id": taskID, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update task status: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *TaskRepository) IncrementBidCount(ctx context.Context, taskID primitive.ObjectID, delta int) error {
	update := bson.M{"$inc": bson.M{"bidCount": delta}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return fmt.Errorf("failed to update bid count: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("task not found")
	}
	return nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"category": category})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

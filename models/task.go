package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Task struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description" json:"description"`
	Category       string              `bson:"category" json:"category"`
	Budget         Money               `bson:"budget" json:"budget"`
	Location       *Location           `bson:"location,omitempty" json:"location,omitempty"`
	Deadline       time.Time           `bson:"deadline" json:"deadline"`
	RequiredSkills []string            `bson:"requiredSkills" json:"requiredSkills"`
	PosterID       primitive.ObjectID  `bson:"posterId" json:"posterId"`
	PosterName     string              `bson:"posterName" json:"posterName"`
	Status         TaskStatus          `bson:"status" json:"status"`
	BidCount       int                 `bson:"bidCount" json:"bidCount"`
	AssignedTo     *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AcceptedBidID  *primitive.ObjectID `bson:"acceptedBidId,omitempty" json:"acceptedBidId,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// CanTransitionTo reports whether the task lifecycle allows moving from the
// current status to the target status.
func (t *Task) CanTransitionTo(target TaskStatus) bool {
	switch target {
	case TaskStatusAssigned:
		return t.Status == TaskStatusOpen
	case TaskStatusInProgress:
		return t.Status == TaskStatusAssigned
	case TaskStatusCompleted:
		return t.Status == TaskStatusInProgress
	case TaskStatusCancelled:
		return t.Status == TaskStatusOpen || t.Status == TaskStatusAssigned
	default:
		return false
	}
}

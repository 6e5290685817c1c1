package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RolePoster = "poster"
	RoleTasker = "tasker"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	Skills      []string           `bson:"skills" json:"skills"`
	Bio         string             `bson:"bio" json:"bio"`
	Location    string             `bson:"location" json:"location"`
	Rating      float64            `bson:"rating" json:"rating"`
	RatingCount int                `bson:"ratingCount" json:"ratingCount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserStats is the profile statistics block shown on the profile page.
type UserStats struct {
	TasksPosted    int     `json:"tasksPosted"`
	BidsPlaced     int     `json:"bidsPlaced"`
	TasksCompleted int     `json:"tasksCompleted"`
	Rating         float64 `json:"rating"`
	RatingCount    int     `json:"ratingCount"`
}

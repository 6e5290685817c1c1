package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID       primitive.ObjectID `bson:"taskId" json:"taskId"`
	ReviewerID   primitive.ObjectID `bson:"reviewerId" json:"reviewerId"`
	ReviewerName string             `bson:"reviewerName" json:"reviewerName"`
	RevieweeID   primitive.ObjectID `bson:"revieweeId" json:"revieweeId"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

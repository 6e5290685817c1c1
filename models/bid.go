package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "PENDING"
	BidStatusAccepted BidStatus = "ACCEPTED"
	BidStatusRejected BidStatus = "REJECTED"
	BidStatusPaid     BidStatus = "PAID"
)

type Bid struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID        primitive.ObjectID `bson:"taskId" json:"taskId"`
	BidderID      primitive.ObjectID `bson:"bidderId" json:"bidderId"`
	BidderName    string             `bson:"bidderName" json:"bidderName"`
	Amount        Money              `bson:"amount" json:"bidAmount"`
	Message       string             `bson:"message" json:"message"`
	EstimatedTime string             `bson:"estimatedTime" json:"estimatedTime"`
	Status        BidStatus          `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentOrderStatus string

const (
	PaymentOrderCreated  PaymentOrderStatus = "CREATED"
	PaymentOrderVerified PaymentOrderStatus = "VERIFIED"
	PaymentOrderFailed   PaymentOrderStatus = "FAILED"
)

// PaymentOrder tracks one gateway checkout for an accepted bid. The
// CREATED -> VERIFIED transition happens exactly once and is the only event
// that settles the bid.
type PaymentOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BidID           primitive.ObjectID `bson:"bidId" json:"bidId"`
	TaskID          primitive.ObjectID `bson:"taskId" json:"taskId"`
	PayerID         primitive.ObjectID `bson:"payerId" json:"payerId"`
	PayeeID         primitive.ObjectID `bson:"payeeId" json:"payeeId"`
	Amount          Money              `bson:"amount" json:"amount"`
	ExternalOrderID string             `bson:"externalOrderId" json:"externalOrderId"`
	Receipt         string             `bson:"receipt" json:"receipt"`
	PaymentID       string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Status          PaymentOrderStatus `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	VerifiedAt      *time.Time         `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
}

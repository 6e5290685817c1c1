package models

// Categories is the fixed set of task categories offered by the platform.
var Categories = []string{
	"Cleaning",
	"Delivery",
	"Handyman",
	"Moving",
	"Gardening",
	"Tutoring",
	"Tech Support",
	"Painting",
	"Plumbing",
	"Other",
}

type Category struct {
	Name      string `json:"name"`
	TaskCount int64  `json:"taskCount"`
}

package model

import (
	"time"
)

type Note struct {
	ID        string     `bson:"id" json:"id"` // Generated ID, independent of Mongo's _id
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Title     string     `bson:"title" json:"title" binding:"required"`
	Content   string     `bson:"content" json:"content"`
	ImageURL  string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Reminder  *time.Time `bson:"reminder,omitempty" json:"reminder,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

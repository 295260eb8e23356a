package model

import "time"

type User struct {
	UserID    string    `bson:"user_id" json:"user_id"`                   // Generated unique ID
	Name      string    `bson:"name" json:"name"`                         // Display name
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`   // Unique when present
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`   // Unique when present
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

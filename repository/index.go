package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes both repositories rely on. Email and
// phone are unique only when present, hence the sparse unique indexes.
func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	notesCollection := db.Collection("notes")

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("users_email_unique").
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().
				SetName("users_phone_unique").
				SetUnique(true).
				SetSparse(true),
		},
	}

	noteIndexes := []mongo.IndexModel{
		// External note ID, the only key handlers address notes by
		{
			Keys: bson.D{{Key: "id", Value: 1}},
			Options: options.Index().
				SetName("notes_id_unique").
				SetUnique(true),
		},
		// Owner listing, sorted by recency
		{
			Keys: bson.D{
				{Key: "email", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetName("notes_email_recency"),
		},
		{
			Keys: bson.D{
				{Key: "phone", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetName("notes_phone_recency"),
		},
		// Due-reminder scan
		{
			Keys: bson.D{{Key: "reminder", Value: 1}},
			Options: options.Index().
				SetName("notes_reminder_due").
				SetSparse(true),
		},
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}
	return nil
}

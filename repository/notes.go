package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noteflow/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoteNotFound covers both true absence and a note owned by somebody
// else. Callers must not be able to tell the two apart.
var ErrNoteNotFound = errors.New("note not found")

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func NewNotesRepo(db *mongo.Database) *NotesRepo {
	return &NotesRepo{MongoCollection: db.Collection("notes")}
}

// ownerFilter builds the ownership clause for an identity: the note's email
// or phone must equal the caller's. Only the identity fields actually
// present take part in the match.
func ownerFilter(id model.Identity) bson.M {
	var or []bson.M
	if id.Email != "" {
		or = append(or, bson.M{"email": id.Email})
	}
	if id.Phone != "" {
		or = append(or, bson.M{"phone": id.Phone})
	}
	if len(or) == 0 {
		// Matches nothing. An empty identity must never see any note.
		return bson.M{"email": bson.M{"$exists": false}, "phone": bson.M{"$exists": false}}
	}
	return bson.M{"$or": or}
}

func ownedNoteFilter(noteID string, id model.Identity) bson.M {
	filter := ownerFilter(id)
	filter["id"] = noteID
	return filter
}

// InsertNote persists a new note document.
func (r *NotesRepo) InsertNote(ctx context.Context, note *model.Note) error {
	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// FindByOwner retrieves all notes owned by the identity, most recently
// updated first.
func (r *NotesRepo) FindByOwner(ctx context.Context, id model.Identity) ([]*model.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, ownerFilter(id), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

// FindOwned retrieves a single note if the identity owns it.
func (r *NotesRepo) FindOwned(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	var note model.Note
	err := r.MongoCollection.FindOne(ctx, ownedNoteFilter(noteID, id)).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return &note, nil
}

// ReplaceContent swaps title, content and image reference wholesale and
// refreshes the update timestamp. Returns the updated note.
func (r *NotesRepo) ReplaceContent(ctx context.Context, noteID string, id model.Identity, title, content, imageURL string) (*model.Note, error) {
	update := bson.M{
		"$set": bson.M{
			"title":      title,
			"content":    content,
			"updated_at": time.Now().UTC(),
		},
	}
	if imageURL == "" {
		update["$unset"] = bson.M{"image_url": ""}
	} else {
		update["$set"].(bson.M)["image_url"] = imageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, ownedNoteFilter(noteID, id), update, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return &note, nil
}

// DeleteNote removes an owned note. A zero deleted count maps to
// ErrNoteNotFound so callers can tell "nothing happened" from a storage
// failure.
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string, id model.Identity) error {
	result, err := r.MongoCollection.DeleteOne(ctx, ownedNoteFilter(noteID, id))
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// SetReminder schedules a reminder on an owned note.
func (r *NotesRepo) SetReminder(ctx context.Context, noteID string, id model.Identity, at time.Time) (*model.Note, error) {
	update := bson.M{
		"$set": bson.M{
			"reminder":   at.UTC(),
			"updated_at": time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, ownedNoteFilter(noteID, id), update, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to set reminder: %w", err)
	}
	return &note, nil
}

// ClearReminder removes the reminder from an owned note. Once cleared no
// history of it remains on the document.
func (r *NotesRepo) ClearReminder(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	update := bson.M{
		"$unset": bson.M{"reminder": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, ownedNoteFilter(noteID, id), update, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to clear reminder: %w", err)
	}
	return &note, nil
}

// FindDueReminders selects every note whose reminder is present and at or
// before now.
func (r *NotesRepo) FindDueReminders(ctx context.Context, now time.Time) ([]*model.Note, error) {
	filter := bson.M{
		"reminder": bson.M{
			"$lte": now.UTC(),
			"$ne":  nil,
		},
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode due reminders: %w", err)
	}
	return notes, nil
}

// ClearFiredReminder consumes a fired reminder by note ID. Deliberately
// leaves updated_at alone: firing a reminder is not a user edit.
func (r *NotesRepo) ClearFiredReminder(ctx context.Context, noteID string) error {
	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"id": noteID},
		bson.M{"$unset": bson.M{"reminder": ""}})
	if err != nil {
		return fmt.Errorf("failed to clear fired reminder: %w", err)
	}
	return nil
}

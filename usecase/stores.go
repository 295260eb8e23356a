package usecase

import (
	"context"
	"time"

	"noteflow/model"
)

// NoteStore is the persistence surface the note and reminder services need.
// Implemented by repository.NotesRepo; kept as an interface so tests run
// against an in-memory store.
type NoteStore interface {
	InsertNote(ctx context.Context, note *model.Note) error
	FindByOwner(ctx context.Context, id model.Identity) ([]*model.Note, error)
	FindOwned(ctx context.Context, noteID string, id model.Identity) (*model.Note, error)
	ReplaceContent(ctx context.Context, noteID string, id model.Identity, title, content, imageURL string) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID string, id model.Identity) error
	SetReminder(ctx context.Context, noteID string, id model.Identity, at time.Time) (*model.Note, error)
	ClearReminder(ctx context.Context, noteID string, id model.Identity) (*model.Note, error)
	FindDueReminders(ctx context.Context, now time.Time) ([]*model.Note, error)
	ClearFiredReminder(ctx context.Context, noteID string) error
}

// UserStore is the identity persistence surface. Implemented by
// repository.UserRepo.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByIdentity(ctx context.Context, id model.Identity) (*model.User, error)
}

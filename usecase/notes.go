package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"noteflow/model"
	"noteflow/repository"
	"noteflow/services"
	"noteflow/utils"
)

var (
	ErrTitleRequired    = errors.New("note title is required")
	ErrReminderRequired = errors.New("reminder date is required")
	ErrReminderInPast   = errors.New("reminder must be in the future")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type NotesService struct {
	Notes   NoteStore
	Users   UserStore
	Mailer  services.Mailer
	BaseURL string
	Log     zerolog.Logger
}

func (svc *NotesService) guard(id model.Identity) error {
	if id.IsZero() {
		return ErrNotAuthenticated
	}
	return nil
}

// ListNotes returns the caller's notes, most recently updated first. The
// ownership filter lives in the store; no note of another identity can leak
// through regardless of request parameters.
func (svc *NotesService) ListNotes(ctx context.Context, id model.Identity) ([]*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}
	return svc.Notes.FindByOwner(ctx, id)
}

// GetNote fetches a single owned note.
func (svc *NotesService) GetNote(ctx context.Context, id model.Identity, noteID string) (*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}
	return svc.Notes.FindOwned(ctx, noteID, id)
}

// CreateNote persists a new note bound to the caller identity and then
// dispatches a best-effort activity notification. The notification never
// fails the creation.
func (svc *NotesService) CreateNote(ctx context.Context, id model.Identity, title, content, imageURL string) (*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	note := &model.Note{
		ID:        utils.GenerateNoteID(),
		Email:     id.Email,
		Phone:     id.Phone,
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := svc.Notes.InsertNote(ctx, note); err != nil {
		return nil, err
	}

	// Dispatch strictly after successful persistence.
	svc.notifyActivity(ctx, id, "create", note.Title)
	return note, nil
}

// UpdateNote replaces title, content and image reference wholesale. Absent
// fields clear; there is no partial update. Returns ErrNoteNotFound for
// both missing and foreign-owned notes.
func (svc *NotesService) UpdateNote(ctx context.Context, id model.Identity, noteID, title, content, imageURL string) (*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	note, err := svc.Notes.ReplaceContent(ctx, noteID, id, title, content, imageURL)
	if err != nil {
		return nil, err
	}

	svc.notifyActivity(ctx, id, "update", note.Title)
	return note, nil
}

// DeleteNote removes an owned note. No soft delete, no cascade.
func (svc *NotesService) DeleteNote(ctx context.Context, id model.Identity, noteID string) error {
	if err := svc.guard(id); err != nil {
		return err
	}
	return svc.Notes.DeleteNote(ctx, noteID, id)
}

// SetReminder schedules a future reminder on an owned note and confirms by
// email, best effort.
func (svc *NotesService) SetReminder(ctx context.Context, id model.Identity, noteID string, at time.Time) (*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}
	if at.IsZero() {
		return nil, ErrReminderRequired
	}
	if !at.After(time.Now()) {
		return nil, ErrReminderInPast
	}

	note, err := svc.Notes.SetReminder(ctx, noteID, id, at)
	if err != nil {
		return nil, err
	}

	svc.notifyReminderChange(ctx, id, note.Title, note.Reminder)
	return note, nil
}

// CancelReminder clears a scheduled reminder without any notification ever
// firing for it. The cancellation confirmation is best effort.
func (svc *NotesService) CancelReminder(ctx context.Context, id model.Identity, noteID string) (*model.Note, error) {
	if err := svc.guard(id); err != nil {
		return nil, err
	}

	note, err := svc.Notes.ClearReminder(ctx, noteID, id)
	if err != nil {
		return nil, err
	}

	svc.notifyReminderChange(ctx, id, note.Title, nil)
	return note, nil
}

// notifyActivity emails the owner about a create/update. Errors are logged
// and swallowed: the mail is auxiliary to the operation's success.
func (svc *NotesService) notifyActivity(ctx context.Context, id model.Identity, action, title string) {
	user, err := svc.Users.FindByIdentity(ctx, id)
	if err != nil || user.Email == "" {
		return
	}

	subject, body := services.NoteActivityEmail(user.Name, action, title, time.Now())
	if err := svc.Mailer.Send(ctx, user.Email, subject, body); err != nil {
		svc.Log.Warn().Err(err).Str("action", action).Msg("activity email failed")
	}
}

func (svc *NotesService) notifyReminderChange(ctx context.Context, id model.Identity, title string, reminder *time.Time) {
	user, err := svc.Users.FindByIdentity(ctx, id)
	if err != nil || user.Email == "" {
		return
	}

	subject, body := services.ReminderChangedEmail(user.Name, title, reminder)
	if err := svc.Mailer.Send(ctx, user.Email, subject, body); err != nil {
		svc.Log.Warn().Err(err).Msg("reminder change email failed")
	}
}

// IsNotFound reports whether err is the not-found outcome shared by absent
// and foreign-owned notes.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNoteNotFound)
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteflow/model"
)

func newNotesService(t *testing.T) (*NotesService, *fakeNoteStore, *fakeUserStore, *fakeMailer) {
	t.Helper()
	notes := newFakeNoteStore()
	users := &fakeUserStore{}
	mailer := &fakeMailer{}
	svc := &NotesService{
		Notes:   notes,
		Users:   users,
		Mailer:  mailer,
		BaseURL: "http://localhost:8080",
		Log:     zerolog.Nop(),
	}
	return svc, notes, users, mailer
}

var (
	alice = model.Identity{Email: "alice@example.com", Name: "Alice"}
	bob   = model.Identity{Email: "bob@example.com", Name: "Bob"}
)

func seedUser(t *testing.T, users *fakeUserStore, id model.Identity) {
	t.Helper()
	err := users.AddUser(context.Background(), &model.User{
		Name:  id.Name,
		Email: id.Email,
		Phone: id.Phone,
	})
	require.NoError(t, err)
}

func TestCreateNoteAssignsFreshID(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	first, err := svc.CreateNote(ctx, alice, "groceries", "milk", "")
	require.NoError(t, err)
	second, err := svc.CreateNote(ctx, alice, "groceries", "milk", "")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "each create must mint its own id")
	assert.Equal(t, alice.Email, first.Email)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
}

func TestCreateNoteRequiresTitle(t *testing.T) {
	svc, _, _, _ := newNotesService(t)

	_, err := svc.CreateNote(context.Background(), alice, "   ", "body", "")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateNoteRequiresIdentity(t *testing.T) {
	svc, _, _, _ := newNotesService(t)

	_, err := svc.CreateNote(context.Background(), model.Identity{}, "title", "", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCreateNoteSurvivesMailerFailure(t *testing.T) {
	svc, _, users, mailer := newNotesService(t)
	seedUser(t, users, alice)
	mailer.fail = true

	note, err := svc.CreateNote(context.Background(), alice, "title", "", "")
	require.NoError(t, err, "notification failure must not fail the create")
	assert.NotEmpty(t, note.ID)
}

func TestCreateNoteNotifiesOwner(t *testing.T) {
	svc, _, users, mailer := newNotesService(t)
	seedUser(t, users, alice)

	_, err := svc.CreateNote(context.Background(), alice, "title", "", "")
	require.NoError(t, err)
	require.Equal(t, 1, mailer.sentCount())
	assert.Equal(t, alice.Email, mailer.sent[0].To)
}

func TestListNotesIsOwnerScoped(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, alice, "alice note", "", "")
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, bob, "bob note", "", "")
	require.NoError(t, err)

	got, err := svc.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice note", got[0].Title)
}

func TestListNotesOrdersByUpdatedAtDesc(t *testing.T) {
	svc, notes, _, _ := newNotesService(t)
	ctx := context.Background()

	older, err := svc.CreateNote(ctx, alice, "older", "", "")
	require.NoError(t, err)
	newer, err := svc.CreateNote(ctx, alice, "newer", "", "")
	require.NoError(t, err)

	// Force a clear ordering regardless of clock resolution.
	notes.mu.Lock()
	notes.notes[older.ID].UpdatedAt = time.Now().UTC().Add(-time.Hour)
	notes.notes[newer.ID].UpdatedAt = time.Now().UTC()
	notes.mu.Unlock()

	got, err := svc.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Title)
	assert.Equal(t, "older", got[1].Title)
}

func TestUpdateNoteReplacesWholesale(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "content", "https://img/x.png")
	require.NoError(t, err)

	updated, err := svc.UpdateNote(ctx, alice, note.ID, "new title", "new content", "")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new content", updated.Content)
	assert.Empty(t, updated.ImageURL, "omitted image must clear, not persist")

	again, err := svc.UpdateNote(ctx, alice, note.ID, "new title", "new content", "")
	require.NoError(t, err)
	assert.Equal(t, updated.Title, again.Title)
	assert.Equal(t, updated.Content, again.Content)
}

func TestUpdateForeignNoteIsNotFound(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	_, err = svc.UpdateNote(ctx, bob, note.ID, "stolen", "", "")
	assert.True(t, IsNotFound(err), "foreign note must look exactly like a missing one")

	_, err = svc.UpdateNote(ctx, bob, "no-such-id", "stolen", "", "")
	assert.True(t, IsNotFound(err))
}

func TestDeleteNote(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(ctx, alice, note.ID))
	assert.True(t, IsNotFound(svc.DeleteNote(ctx, alice, note.ID)), "second delete is not-found")
}

func TestDeleteForeignNoteIsNotFound(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	err = svc.DeleteNote(ctx, bob, note.ID)
	assert.True(t, IsNotFound(err))

	// The note is untouched for its real owner.
	got, err := svc.GetNote(ctx, alice, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
}

func TestSetReminderRejectsPast(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	_, err = svc.SetReminder(ctx, alice, note.ID, time.Now().Add(-time.Minute))
	assert.ErrorIs(t, err, ErrReminderInPast)

	_, err = svc.SetReminder(ctx, alice, note.ID, time.Time{})
	assert.ErrorIs(t, err, ErrReminderRequired)
}

func TestSetAndCancelReminder(t *testing.T) {
	svc, _, users, mailer := newNotesService(t)
	seedUser(t, users, alice)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	at := time.Now().Add(time.Hour)
	withReminder, err := svc.SetReminder(ctx, alice, note.ID, at)
	require.NoError(t, err)
	require.NotNil(t, withReminder.Reminder)
	assert.WithinDuration(t, at, *withReminder.Reminder, time.Second)

	cleared, err := svc.CancelReminder(ctx, alice, note.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Reminder)

	// create + set + cancel each confirm by mail
	assert.Equal(t, 3, mailer.sentCount())
}

func TestSetReminderOnForeignNote(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, alice, "title", "", "")
	require.NoError(t, err)

	_, err = svc.SetReminder(ctx, bob, note.ID, time.Now().Add(time.Hour))
	assert.True(t, IsNotFound(err))
}

func TestPhoneIdentityOwnsNotes(t *testing.T) {
	svc, _, _, _ := newNotesService(t)
	ctx := context.Background()
	carol := model.Identity{Phone: "+15550001111", Name: "Carol"}

	note, err := svc.CreateNote(ctx, carol, "phone note", "", "")
	require.NoError(t, err)
	assert.Equal(t, carol.Phone, note.Phone)
	assert.Empty(t, note.Email)

	got, err := svc.ListNotes(ctx, carol)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"noteflow/model"
	"noteflow/repository"
)

// fakeNoteStore mirrors the repository's ownership semantics in memory:
// a note matches an identity when emails or phones are equal.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string]*model.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]*model.Note)}
}

func owns(note *model.Note, id model.Identity) bool {
	if id.IsZero() {
		return false
	}
	if id.Email != "" && note.Email == id.Email {
		return true
	}
	if id.Phone != "" && note.Phone == id.Phone {
		return true
	}
	return false
}

func (s *fakeNoteStore) InsertNote(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *fakeNoteStore) FindByOwner(ctx context.Context, id model.Identity) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Note{}
	for _, n := range s.notes {
		if owns(n, id) {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *fakeNoteStore) FindOwned(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	clone := *n
	return &clone, nil
}

func (s *fakeNoteStore) ReplaceContent(ctx context.Context, noteID string, id model.Identity, title, content, imageURL string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	n.Title = title
	n.Content = content
	n.ImageURL = imageURL
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *fakeNoteStore) DeleteNote(ctx context.Context, noteID string, id model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !owns(n, id) {
		return repository.ErrNoteNotFound
	}
	delete(s.notes, n.ID)
	return nil
}

func (s *fakeNoteStore) SetReminder(ctx context.Context, noteID string, id model.Identity, at time.Time) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	utc := at.UTC()
	n.Reminder = &utc
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *fakeNoteStore) ClearReminder(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	n.Reminder = nil
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *fakeNoteStore) FindDueReminders(ctx context.Context, now time.Time) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Note{}
	for _, n := range s.notes {
		if n.Reminder != nil && !n.Reminder.After(now) {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) ClearFiredReminder(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[noteID]; ok {
		n.Reminder = nil
	}
	return nil
}

// get returns the stored note regardless of owner, for assertions.
func (s *fakeNoteStore) get(noteID string) *model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok {
		return nil
	}
	clone := *n
	return &clone
}

type fakeUserStore struct {
	mu    sync.Mutex
	users []*model.User
}

func (s *fakeUserStore) AddUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.UserID == "" {
		user.UserID = "user-" + user.Email + user.Phone
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != "" && u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone != "" && u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) FindByIdentity(ctx context.Context, id model.Identity) (*model.User, error) {
	if id.Email != "" {
		if u, err := s.FindByEmail(ctx, id.Email); err == nil {
			return u, nil
		}
	}
	if id.Phone != "" {
		if u, err := s.FindByPhone(ctx, id.Phone); err == nil {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: html})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeLock struct {
	busy bool
}

func (l *fakeLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return !l.busy, nil
}

func (l *fakeLock) Release(ctx context.Context, name string) error { return nil }

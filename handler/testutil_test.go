package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"noteflow/middleware"
	"noteflow/model"
	"noteflow/repository"
	"noteflow/services"
	"noteflow/usecase"
)

// memNoteStore reproduces the repository's ownership semantics in memory so
// handler tests run the full request path without a database.
type memNoteStore struct {
	mu    sync.Mutex
	notes map[string]*model.Note
}

func newMemNoteStore() *memNoteStore {
	return &memNoteStore{notes: make(map[string]*model.Note)}
}

func (s *memNoteStore) owns(n *model.Note, id model.Identity) bool {
	if id.IsZero() {
		return false
	}
	return (id.Email != "" && n.Email == id.Email) || (id.Phone != "" && n.Phone == id.Phone)
}

func (s *memNoteStore) InsertNote(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *memNoteStore) FindByOwner(ctx context.Context, id model.Identity) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Note{}
	for _, n := range s.notes {
		if s.owns(n, id) {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *memNoteStore) FindOwned(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !s.owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	clone := *n
	return &clone, nil
}

func (s *memNoteStore) ReplaceContent(ctx context.Context, noteID string, id model.Identity, title, content, imageURL string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !s.owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	n.Title, n.Content, n.ImageURL = title, content, imageURL
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *memNoteStore) DeleteNote(ctx context.Context, noteID string, id model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !s.owns(n, id) {
		return repository.ErrNoteNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *memNoteStore) SetReminder(ctx context.Context, noteID string, id model.Identity, at time.Time) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !s.owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	utc := at.UTC()
	n.Reminder = &utc
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *memNoteStore) ClearReminder(ctx context.Context, noteID string, id model.Identity) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[noteID]
	if !ok || !s.owns(n, id) {
		return nil, repository.ErrNoteNotFound
	}
	n.Reminder = nil
	n.UpdatedAt = time.Now().UTC()
	clone := *n
	return &clone, nil
}

func (s *memNoteStore) FindDueReminders(ctx context.Context, now time.Time) ([]*model.Note, error) {
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

func (s *memNoteStore) ClearFiredReminder(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[noteID]; ok {
		n.Reminder = nil
	}
	return nil
}

type memUserStore struct {
	mu    sync.Mutex
	users []*model.User
}

func (s *memUserStore) AddUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.UserID == "" {
		user.UserID = "user-" + user.Email + user.Phone
	}
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
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

func (s *memUserStore) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
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

func (s *memUserStore) FindByIdentity(ctx context.Context, id model.Identity) (*model.User, error) {
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

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, html string) error { return nil }

type memPhoneVerifier struct{ phones map[string]string }

func (v *memPhoneVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	if p, ok := v.phones[rawToken]; ok {
		return p, nil
	}
	return "", errors.New("invalid phone token")
}

type memGoogleVerifier struct{ tokens map[string]*services.GoogleClaims }

func (v *memGoogleVerifier) Verify(ctx context.Context, rawToken string) (*services.GoogleClaims, error) {
	if c, ok := v.tokens[rawToken]; ok {
		return c, nil
	}
	return nil, errors.New("invalid google token")
}

type memUploader struct {
	url string
	err error
}

func (u *memUploader) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	io.Copy(io.Discard, r)
	return u.url, nil
}

type memRewriter struct {
	out string
	err error
}

func (r *memRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.out, nil
}

const testCronSecret = "cron-secret"

var googleClaimsFixture = services.GoogleClaims{
	Email:   "new@example.com",
	Name:    "New User",
	Picture: "https://pic.example.com/p.png",
}

type testEnv struct {
	router   *gin.Engine
	tokens   *services.TokenService
	notes    *memNoteStore
	users    *memUserStore
	phone    *memPhoneVerifier
	google   *memGoogleVerifier
	uploader *memUploader
	rewriter *memRewriter
}

// newTestEnv wires the full handler surface over in-memory collaborators,
// mirroring the production route table.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	env := &testEnv{
		tokens:   services.NewTokenService("test-secret", time.Hour),
		notes:    newMemNoteStore(),
		users:    &memUserStore{},
		phone:    &memPhoneVerifier{phones: map[string]string{}},
		google:   &memGoogleVerifier{tokens: map[string]*services.GoogleClaims{}},
		uploader: &memUploader{url: "https://cdn.example.com/notes/img.png"},
		rewriter: &memRewriter{out: "rewritten"},
	}

	notesService := &usecase.NotesService{
		Notes:   env.notes,
		Users:   env.users,
		Mailer:  noopMailer{},
		BaseURL: "http://localhost:8080",
		Log:     log,
	}
	reminderService := &usecase.ReminderService{
		Notes:   env.notes,
		Users:   env.users,
		Mailer:  noopMailer{},
		Lock:    services.NoopJobLock{},
		BaseURL: "http://localhost:8080",
		Log:     log,
	}
	authService := &usecase.AuthService{
		Users:  env.users,
		Tokens: env.tokens,
		Phone:  env.phone,
		Google: env.google,
		Mailer: noopMailer{},
		Log:    log,
	}

	authHandler := NewAuthHandler(authService, time.Hour, false)
	notesHandler := NewNotesHandler(notesService)
	reminderHandler := NewReminderHandler(notesService)
	cronHandler := NewCronHandler(reminderService, testCronSecret)
	uploadHandler := NewUploadHandler(env.uploader)
	aiHandler := NewAIHandler(env.rewriter)
	exportHandler := NewExportHandler(notesService)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(env.tokens))

	public := router.Group("/api")
	auth := public.Group("/auth")
	auth.POST("/phone/signin", authHandler.PhoneSignIn)
	auth.POST("/phone/signup", authHandler.PhoneSignUp)
	auth.POST("/google/signin", authHandler.GoogleSignIn)
	auth.POST("/google/signup", authHandler.GoogleSignUp)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)
	public.GET("/cron/process-reminders", cronHandler.ProcessReminders)
	public.POST("/cron/process-reminders", cronHandler.ProcessReminders)

	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth())
	notes := protected.Group("/notes")
	notes.GET("", notesHandler.List)
	notes.POST("", notesHandler.Create)
	notes.PUT("/:id", notesHandler.Update)
	notes.DELETE("/:id", notesHandler.Delete)
	notes.POST("/:id/reminder", reminderHandler.Set)
	notes.DELETE("/:id/reminder", reminderHandler.Cancel)
	notes.GET("/:id/export", exportHandler.ExportPDF)
	notes.POST("/upload", uploadHandler.Upload)
	notes.POST("/ai/rewrite", aiHandler.Rewrite)

	env.router = router
	return env
}

// sessionFor mints a session cookie for the given identity.
func (env *testEnv) sessionFor(t *testing.T, id model.Identity) *http.Cookie {
	t.Helper()
	token, err := env.tokens.Mint(id)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// envelope decodes the standard response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

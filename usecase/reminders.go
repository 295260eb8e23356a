package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"noteflow/model"
	"noteflow/repository"
	"noteflow/services"
)

// ErrBatchRunning signals that another scheduler instance holds the batch
// lease.
var ErrBatchRunning = errors.New("reminder batch already running")

const reminderLockName = "process-reminders"
const reminderLockTTL = time.Minute

// BatchResult summarizes one scheduler run.
type BatchResult struct {
	Processed int       `json:"processed"`
	Errors    int       `json:"errors"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// ReminderService is the polling batch job behind the cron trigger. It does
// not schedule its own invocations.
type ReminderService struct {
	Notes   NoteStore
	Users   UserStore
	Mailer  services.Mailer
	Lock    services.JobLock
	BaseURL string
	Log     zerolog.Logger
}

// ProcessDue scans for reminders at or before now, notifies each owner, and
// consumes the reminder on confirmed delivery. Failure of one note never
// aborts the batch. Because a reminder is cleared only after a successful
// send, a transient dispatch failure self-heals on the next run, and an
// immediate re-run after success is a no-op.
func (svc *ReminderService) ProcessDue(ctx context.Context, now time.Time) (BatchResult, error) {
	result := BatchResult{Timestamp: now}

	ok, err := svc.Lock.Acquire(ctx, reminderLockName, reminderLockTTL)
	if err != nil {
		return result, err
	}
	if !ok {
		return result, ErrBatchRunning
	}
	defer func() {
		if err := svc.Lock.Release(context.Background(), reminderLockName); err != nil {
			svc.Log.Warn().Err(err).Msg("failed to release batch lock")
		}
	}()

	due, err := svc.Notes.FindDueReminders(ctx, now)
	if err != nil {
		return result, err
	}
	result.Total = len(due)

	for _, note := range due {
		switch svc.processOne(ctx, note) {
		case outcomeProcessed:
			result.Processed++
		case outcomeError:
			result.Errors++
		case outcomeSkipped:
			// unresolvable or mail-less owner: neither success nor error
		}
	}

	svc.Log.Info().
		Int("processed", result.Processed).
		Int("errors", result.Errors).
		Int("total", result.Total).
		Msg("reminder batch finished")
	return result, nil
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
	outcomeError
)

func (svc *ReminderService) processOne(ctx context.Context, note *model.Note) outcome {
	owner := model.Identity{Email: note.Email, Phone: note.Phone}
	if owner.IsZero() {
		svc.Log.Debug().Str("note_id", note.ID).Msg("note has no owner identity, skipping")
		return outcomeSkipped
	}

	user, err := svc.Users.FindByIdentity(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			svc.Log.Debug().Str("note_id", note.ID).Msg("no user found for note, skipping")
			return outcomeSkipped
		}
		svc.Log.Error().Err(err).Str("note_id", note.ID).Msg("owner lookup failed")
		return outcomeError
	}
	if user.Email == "" {
		svc.Log.Debug().Str("note_id", note.ID).Msg("owner has no email, skipping")
		return outcomeSkipped
	}

	subject, body := services.ReminderDueEmail(user.Name, note.Title, note.ID, note.Content, svc.BaseURL)
	if err := svc.Mailer.Send(ctx, user.Email, subject, body); err != nil {
		svc.Log.Error().Err(err).Str("note_id", note.ID).Msg("reminder dispatch failed")
		return outcomeError
	}

	// Consume only after the confirmed send. A failure here leaves a
	// duplicate-send window on the next run, the accepted at-least-once
	// risk.
	if err := svc.Notes.ClearFiredReminder(ctx, note.ID); err != nil {
		svc.Log.Error().Err(err).Str("note_id", note.ID).Msg("reminder clear failed after send")
		return outcomeError
	}
	return outcomeProcessed
}

package services

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Email bodies are single interpolated strings, matching the one-shot
// transactional mails they produce. All user-controlled values are escaped.

func orUntitled(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled Note"
	}
	return title
}

func greetName(name string) string {
	if name == "" {
		return ""
	}
	return " " + html.EscapeString(name)
}

// WelcomeEmail is sent once after a confirmed sign-up.
func WelcomeEmail(name, email string) (subject, body string) {
	subject = "Welcome to NoteFlow"
	body = fmt.Sprintf(`
  <div style="font-family:Inter,Arial,sans-serif;padding:24px;max-width:600px;margin:0 auto;background-color:#f8fafc;">
    <div style="background:white;border-radius:12px;padding:32px;">
      <h1 style="color:#1f2937;">Welcome to NoteFlow%s!</h1>
      <p style="color:#64748b;">Thank you for joining NoteFlow. We're excited to help you
      organize your thoughts and ideas.</p>
      <p style="color:#64748b;">Your account is registered with <strong>%s</strong>.
      If this wasn't you, please contact support immediately.</p>
      <p style="color:#9ca3af;font-size:12px;">This is an automated message from NoteFlow.</p>
    </div>
  </div>`, greetName(name), html.EscapeString(email))
	return subject, body
}

// NoteActivityEmail notifies the owner about a create or update on one of
// their notes.
func NoteActivityEmail(name, action, noteTitle string, at time.Time) (subject, body string) {
	verb := "updated"
	if action == "create" {
		verb = "created"
	}
	subject = fmt.Sprintf("Note %s in NoteFlow", verb)
	body = fmt.Sprintf(`
  <div style="font-family:Inter,Arial,sans-serif;padding:24px;max-width:600px;margin:0 auto;background-color:#f8fafc;">
    <div style="background:white;border-radius:12px;padding:32px;">
      <h2 style="color:#1f2937;">Hello%s,</h2>
      <p style="color:#64748b;">Your note <strong>"%s"</strong> was %s at %s.</p>
      <p style="color:#64748b;">If you didn't perform this action, please review your
      recent activity.</p>
      <p style="color:#9ca3af;font-size:12px;">This is an automated message from NoteFlow.</p>
    </div>
  </div>`, greetName(name), html.EscapeString(orUntitled(noteTitle)), verb, at.Format(time.RFC1123))
	return subject, body
}

// ReminderChangedEmail confirms a reminder being set or removed.
func ReminderChangedEmail(name, noteTitle string, reminder *time.Time) (subject, body string) {
	title := orUntitled(noteTitle)
	if reminder == nil {
		subject = fmt.Sprintf("Reminder removed for your note: %s", title)
		body = fmt.Sprintf(`
  <div style="font-family:Inter,Arial,sans-serif;padding:24px;max-width:600px;margin:0 auto;">
    <h2 style="color:#1f2937;">Reminder Removed</h2>
    <p style="color:#64748b;">Hello%s, you've removed the reminder from
    <strong>"%s"</strong>.</p>
  </div>`, greetName(name), html.EscapeString(title))
		return subject, body
	}

	subject = fmt.Sprintf("Reminder set for your note: %s", title)
	body = fmt.Sprintf(`
  <div style="font-family:Inter,Arial,sans-serif;padding:24px;max-width:600px;margin:0 auto;">
    <h2 style="color:#1f2937;">Reminder Set Successfully</h2>
    <p style="color:#64748b;">Hello%s, you've set a reminder for
    <strong>"%s"</strong>. We'll email you at %s with a link back to your note.</p>
  </div>`, greetName(name), html.EscapeString(title), reminder.Format(time.RFC1123))
	return subject, body
}

// reminderContentLimit bounds how much note content a due-reminder mail
// quotes back.
const reminderContentLimit = 150

// ReminderDueEmail is the one-shot notification for a fired reminder.
func ReminderDueEmail(name, noteTitle, noteID, content, baseURL string) (subject, body string) {
	title := orUntitled(noteTitle)
	subject = fmt.Sprintf("⏰ Reminder: %s", title)

	truncated := content
	if len(truncated) > reminderContentLimit {
		truncated = truncated[:reminderContentLimit] + "..."
	}

	quote := ""
	if truncated != "" {
		quote = fmt.Sprintf(`
      <div style="background-color:#f8fafc;padding:16px;border-radius:6px;">
        <p style="color:#64748b;font-style:italic;">"%s"</p>
      </div>`, html.EscapeString(truncated))
	}

	body = fmt.Sprintf(`
  <div style="font-family:Inter,Arial,sans-serif;padding:24px;max-width:600px;margin:0 auto;background-color:#f8fafc;">
    <div style="background:white;border-radius:12px;padding:32px;">
      <h1 style="color:#dc2626;">⏰ Reminder: Time to Review Your Note</h1>
      <p style="color:#64748b;">Hello%s, this is your scheduled reminder.</p>
      <h3 style="color:#1f2937;">📝 %s</h3>%s
      <a href="%s/dashboard?note=%s"
         style="display:inline-block;background:#3b82f6;color:white;padding:12px 24px;border-radius:6px;text-decoration:none;">
        📖 Open Note in NoteFlow</a>
      <p style="color:#9ca3af;font-size:12px;">This reminder was set by you in NoteFlow.</p>
    </div>
  </div>`, greetName(name), html.EscapeString(title), quote, baseURL, noteID)
	return subject, body
}

package dto

import "time"

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// UpdateNoteRequest carries the full replacement state of a note. Absent
// fields are explicit clears; there are no partial-update semantics.
type UpdateNoteRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type SetReminderRequest struct {
	Reminder time.Time `json:"reminder" binding:"required"`
}

type RewriteRequest struct {
	Text string `json:"text" binding:"required"`
}

type RewriteResponse struct {
	Text string `json:"text"`
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

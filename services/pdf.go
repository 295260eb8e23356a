package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"noteflow/model"
)

// RenderNotePDF renders a note into a printable A4 document and returns the
// raw PDF bytes.
func RenderNotePDF(note *model.Note) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(48, 48, 48)
	doc.AddPage()

	// Header
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(37, 99, 235)
	doc.MultiCell(0, 26, note.Title, "", "L", false)
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(75, 85, 99)
	doc.CellFormat(0, 14,
		fmt.Sprintf("Created %s  |  Updated %s",
			note.CreatedAt.Format("Jan 2, 2006"),
			note.UpdatedAt.Format("Jan 2, 2006")),
		"", 1, "L", false, 0, "")
	doc.Ln(10)

	// Body
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(31, 41, 55)
	content := note.Content
	if content == "" {
		content = "(no content)"
	}
	doc.MultiCell(0, 16, content, "", "L", false)

	if note.ImageURL != "" {
		doc.Ln(12)
		doc.SetFont("Helvetica", "I", 9)
		doc.SetTextColor(75, 85, 99)
		doc.MultiCell(0, 12, "Attachment: "+note.ImageURL, "", "L", false)
	}

	// Footer
	doc.SetY(-64)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(113, 128, 150)
	doc.CellFormat(0, 12,
		fmt.Sprintf("Exported from NoteFlow on %s", time.Now().Format("Jan 2, 2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

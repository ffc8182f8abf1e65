package server

import (
	"time"

	"college_api/internal/db"
	"college_api/internal/models"
)

// newsView — News в ответе API: строковый id и даты в виде строк.
type newsView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
	PublishedAt *string `json:"published_at"`
}

func newNewsView(d db.Stored[models.News]) newsView {
	return newsView{
		ID:          d.ID,
		Title:       d.Record.Title,
		Summary:     d.Record.Summary,
		Content:     d.Record.Content,
		ImageURL:    d.Record.ImageURL,
		PublishedAt: formatTimePtr(d.Record.PublishedAt),
	}
}

// eventView — Event в ответе API.
type eventView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Date        string  `json:"date"`
	Link        *string `json:"link"`
}

func newEventView(d db.Stored[models.Event]) eventView {
	return eventView{
		ID:          d.ID,
		Title:       d.Record.Title,
		Description: d.Record.Description,
		Location:    d.Record.Location,
		Date:        formatTime(d.Record.Date),
		Link:        d.Record.Link,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

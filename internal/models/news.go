package models

import "time"

// News — новость сайта колледжа.
type News struct {
	Title       string     `json:"title" bson:"title"`
	Summary     string     `json:"summary" bson:"summary"`
	Content     *string    `json:"content" bson:"content"`
	ImageURL    *string    `json:"image_url" bson:"image_url"`
	PublishedAt *time.Time `json:"published_at" bson:"published_at"`
}

func (News) Collection() string { return "news" }

func (News) Model() string { return "News" }

// DecodeNews разбирает тело запроса и проверяет его по схеме News.
func DecodeNews(body []byte) (News, error) {
	f, err := parseObject(body)
	if err != nil {
		return News{}, err
	}

	n := News{
		Title:       f.requiredString("title"),
		Summary:     f.requiredString("summary"),
		Content:     f.optionalString("content"),
		ImageURL:    f.optionalURL("image_url"),
		PublishedAt: f.optionalTime("published_at"),
	}
	if err := f.err(); err != nil {
		return News{}, err
	}
	return n, nil
}

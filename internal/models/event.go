package models

import "time"

// Event — мероприятие колледжа.
type Event struct {
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Location    string    `json:"location" bson:"location"`
	Date        time.Time `json:"date" bson:"date"`
	Link        *string   `json:"link" bson:"link"`
}

func (Event) Collection() string { return "event" }

func (Event) Model() string { return "Event" }

// DecodeEvent разбирает тело запроса и проверяет его по схеме Event.
func DecodeEvent(body []byte) (Event, error) {
	f, err := parseObject(body)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		Title:       f.requiredString("title"),
		Description: f.requiredString("description"),
		Location:    f.requiredString("location"),
		Date:        f.requiredTime("date"),
		Link:        f.optionalURL("link"),
	}
	if err := f.err(); err != nil {
		return Event{}, err
	}
	return e, nil
}

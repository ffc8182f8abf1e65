package models

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"time"

	"college_api/internal/apperr"

	"github.com/itlightning/dateparse"
)

const maxURLLength = 2083

const (
	minYear = 0
	maxYear = 9999
	// maxUnixSeconds отсекает числа, которые не помещаются в int64.
	maxUnixSeconds = 1 << 62
)

const (
	msgRequired  = "field required"
	msgString    = "must be a string"
	msgEmpty     = "must not be empty"
	msgURL       = "must be a valid http or https URL"
	msgTimestamp = "must be a valid date/time"
)

// fields накапливает ошибки по полям, пока из JSON-объекта извлекаются значения.
type fields struct {
	raw     map[string]json.RawMessage
	details []apperr.Detail
}

func parseObject(body []byte) (*fields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, apperr.Validation(apperr.Detail{Field: "body", Error: "must be a JSON object"})
	}
	return &fields{raw: raw}, nil
}

func (f *fields) fail(name, msg string) {
	f.details = append(f.details, apperr.Detail{Field: name, Error: msg})
}

func (f *fields) err() error {
	if len(f.details) == 0 {
		return nil
	}
	return apperr.Validation(f.details...)
}

// lookup возвращает сырое значение поля; null считается отсутствием.
func (f *fields) lookup(name string) (json.RawMessage, bool) {
	v, ok := f.raw[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

func (f *fields) requiredString(name string) string {
	v, ok := f.lookup(name)
	if !ok {
		f.fail(name, msgRequired)
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		f.fail(name, msgString)
		return ""
	}
	if s == "" {
		f.fail(name, msgEmpty)
	}
	return s
}

func (f *fields) optionalString(name string) *string {
	v, ok := f.lookup(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		f.fail(name, msgString)
		return nil
	}
	return &s
}

func (f *fields) optionalURL(name string) *string {
	s := f.optionalString(name)
	if s == nil {
		return nil
	}
	if !IsHTTPURL(*s) {
		f.fail(name, msgURL)
		return nil
	}
	return s
}

func (f *fields) requiredTime(name string) time.Time {
	if _, ok := f.lookup(name); !ok {
		f.fail(name, msgRequired)
		return time.Time{}
	}
	t := f.optionalTime(name)
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (f *fields) optionalTime(name string) *time.Time {
	v, ok := f.lookup(name)
	if !ok {
		return nil
	}
	t, err := ParseTimestamp(v)
	if err != nil {
		f.fail(name, msgTimestamp)
		return nil
	}
	return &t
}

// IsHTTPURL сообщает, является ли s абсолютным http(s)-адресом с хостом.
func IsHTTPURL(s string) bool {
	if s == "" || len(s) > maxURLLength {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseTimestamp принимает JSON-строку с датой или число секунд Unix.
// Значения без часового пояса считаются UTC; результат всегда в UTC
// и с годом в диапазоне 0..9999.
func ParseTimestamp(v json.RawMessage) (time.Time, error) {
	t, err := parseTimestamp(v)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, apperr.ErrValidation
	}
	return t, nil
}

func parseTimestamp(v json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s == "" {
			return time.Time{}, apperr.ErrValidation
		}
		return dateparse.ParseIn(s, time.UTC)
	}

	var secs float64
	if err := json.Unmarshal(v, &secs); err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > maxUnixSeconds {
		return time.Time{}, apperr.ErrValidation
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)), nil
}

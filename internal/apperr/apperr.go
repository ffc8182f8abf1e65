// Package apperr описывает ошибки сервиса вместе с HTTP-статусом, в который они отображаются.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error несёт HTTP-статус, исходную ошибку и список ошибок по полям.
type Error struct {
	Status  int
	Err     error
	Details []Detail
}

// Detail описывает проблему с одним полем запроса.
type Detail struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

var (
	// ErrValidation помечает некорректный запрос (422).
	ErrValidation = errors.New("validation failed")
	// ErrStorage помечает недоступность или отказ базы данных (500).
	ErrStorage = errors.New("storage error")
)

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Err)
	}
	return fmt.Sprintf("%d: %s, details: %v", e.Status, e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transport struct {
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
	Status  int      `json:"status"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	msg := http.StatusText(e.Status)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(transport{
		Message: msg,
		Details: e.Details,
		Status:  e.Status,
	})
}

func (e *Error) UnmarshalJSON(byts []byte) error {
	t := transport{}
	if err := json.Unmarshal(byts, &t); err != nil {
		return err
	}

	e.Err = errors.New(t.Message)
	e.Details = t.Details
	e.Status = t.Status
	return nil
}

// E собирает Error из аргументов: string или error задают причину,
// int задаёт статус, Detail и []Detail добавляют ошибки по полям.
func E(args ...any) *Error {
	ret := &Error{
		Status: http.StatusInternalServerError,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	return ret
}

// Validation возвращает ошибку 422 со списком полей.
func Validation(details ...Detail) *Error {
	return E(http.StatusUnprocessableEntity, ErrValidation, details)
}

// Storage оборачивает ошибку базы данных в ошибку 500.
func Storage(err error) *Error {
	return E(http.StatusInternalServerError, fmt.Errorf("%w: %w", ErrStorage, err))
}

// StatusOf возвращает HTTP-статус ошибки; для неизвестных ошибок это 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

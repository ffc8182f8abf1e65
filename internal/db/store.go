package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"college_api/internal/apperr"
	"college_api/internal/logger"
	"college_api/internal/metrics"
	"college_api/internal/models"
)

// ErrNotAvailable возвращается, когда база данных не настроена.
var ErrNotAvailable = errors.New("database not available")

// Decoder декодирует текущий документ в v.
type Decoder func(v any) error

// Store — хранилище документов, разложенных по именованным коллекциям.
type Store interface {
	// Insert сохраняет документ и возвращает присвоенный ему идентификатор.
	Insert(ctx context.Context, collection string, doc any) (string, error)
	// ListRecent обходит не более limit документов коллекции, начиная с самых новых.
	ListRecent(ctx context.Context, collection string, limit int, visit func(id string, decode Decoder) error) error
	CollectionNames(ctx context.Context) ([]string, error)
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Stored — запись вместе с её идентификатором в хранилище.
type Stored[T models.Record] struct {
	ID     string
	Record T
}

// Open выбирает реализацию Store по схеме connString.
func Open(ctx context.Context, connString, name string) (Store, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		s, err := NewMongoStore(ctx, connString, name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql":
		s, err := NewPostgresStore(ctx, connString)
		if err != nil {
			return nil, err
		}
		// Для Postgres база берётся из DSN; DATABASE_NAME только сверяется с ней.
		if name != "" && name != s.Name() {
			logger.Log.WithFields(logger.Fields{
				"backend":       "postgres",
				"database":      s.Name(),
				"database_name": name,
			}).Warn("DATABASE_NAME differs from the database in DATABASE_URL, using the latter")
		}
		return s, nil
	case "memory":
		if name == "" {
			name = u.Host
		}
		return NewMemoryStore(name), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Insert сохраняет запись в её коллекцию.
func Insert(ctx context.Context, s Store, rec models.Record) (id string, err error) {
	if s == nil {
		return "", apperr.Storage(ErrNotAvailable)
	}
	defer func(start time.Time) {
		metrics.ObserveStore("insert", rec.Collection(), start, err)
	}(time.Now())

	id, err = s.Insert(ctx, rec.Collection(), rec)
	if err != nil {
		return "", apperr.Storage(err)
	}
	return id, nil
}

// ListRecent возвращает не более limit последних записей типа T.
func ListRecent[T models.Record](ctx context.Context, s Store, limit int) (out []Stored[T], err error) {
	var zero T
	collection := zero.Collection()

	out = make([]Stored[T], 0)
	if limit <= 0 {
		return out, nil
	}
	if s == nil {
		return nil, apperr.Storage(ErrNotAvailable)
	}
	defer func(start time.Time) {
		metrics.ObserveStore("list", collection, start, err)
	}(time.Now())

	err = s.ListRecent(ctx, collection, limit, func(id string, decode Decoder) error {
		var rec T
		if err := decode(&rec); err != nil {
			return fmt.Errorf("decode %s document %s: %w", collection, id, err)
		}
		out = append(out, Stored[T]{ID: id, Record: rec})
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

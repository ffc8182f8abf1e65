package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"college_api/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pgUndefinedTable = "42P01"

// PostgresStore хранит документы в PostgreSQL: по таблице с колонкой JSONB на коллекцию.
type PostgresStore struct {
	Pool *pgxpool.Pool

	name    string
	ensured sync.Map
}

// NewPostgresStore создаёт новый пул соединений по connString.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %v", err)
	}
	name := pool.Config().ConnConfig.Database
	logger.Log.WithFields(logger.Fields{
		"backend":  "postgres",
		"database": name,
	}).Info("Postgres pool created")
	return &PostgresStore{Pool: pool, name: name}, nil
}

// ensureTable создаёт таблицу коллекции при первой записи в неё.
func (s *PostgresStore) ensureTable(ctx context.Context, collection string) error {
	if _, ok := s.ensured.Load(collection); ok {
		return nil
	}
	_, err := s.Pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            seq BIGSERIAL NOT NULL,
            doc JSONB NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        )
    `, pgx.Identifier{collection}.Sanitize()))
	if err != nil {
		return fmt.Errorf("create table %s: %w", collection, err)
	}
	s.ensured.Store(collection, struct{}{})
	return nil
}

// Insert сохраняет документ; идентификатор генерируется в формате ObjectID.
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := s.ensureTable(ctx, collection); err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := primitive.NewObjectID().Hex()
	_, err = s.Pool.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (id, doc)
        VALUES ($1, $2)
    `, pgx.Identifier{collection}.Sanitize()), id, string(body))
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRecent возвращает документы в порядке, обратном порядку вставки.
// Отсутствующая таблица считается пустой коллекцией.
func (s *PostgresStore) ListRecent(ctx context.Context, collection string, limit int, visit func(string, Decoder) error) error {
	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`
        SELECT id, doc
        FROM %s
        ORDER BY seq DESC
        LIMIT $1
    `, pgx.Identifier{collection}.Sanitize()), limit)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil
		}
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return err
		}
		decode := func(v any) error { return json.Unmarshal(doc, v) }
		if err := visit(id, decode); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *PostgresStore) CollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = current_schema()
        ORDER BY table_name
    `)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresStore) Name() string {
	return s.name
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close закрывает пул соединений.
func (s *PostgresStore) Close(context.Context) error {
	s.Pool.Close()
	return nil
}

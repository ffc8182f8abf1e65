package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryDoc struct {
	id   string
	body []byte
}

// MemoryStore держит документы в памяти процесса; подходит для разработки и тестов.
type MemoryStore struct {
	name string

	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

func NewMemoryStore(name string) *MemoryStore {
	if name == "" {
		name = "memory"
	}
	return &MemoryStore{
		name:        name,
		collections: make(map[string][]memoryDoc),
	}
}

func (s *MemoryStore) Insert(_ context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := primitive.NewObjectID().Hex()

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], memoryDoc{id: id, body: body})
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, collection string, limit int, visit func(string, Decoder) error) error {
	s.mu.RLock()
	docs := s.collections[collection]
	if limit > len(docs) {
		limit = len(docs)
	}
	recent := make([]memoryDoc, 0, limit)
	for i := len(docs) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, docs[i])
	}
	s.mu.RUnlock()

	for _, d := range recent {
		if err := ctx.Err(); err != nil {
			return err
		}
		body := d.body
		if err := visit(d.id, func(v any) error { return json.Unmarshal(body, v) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) CollectionNames(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Name() string {
	return s.name
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

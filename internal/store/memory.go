package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by unit tests and the "memory" store driver.
// Records are kept in insertion order, which is the order Query returns them in.
// Values are normalized through bson so filters compare the way they would against Mongo.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
	now         Clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]bson.M), now: time.Now}
}

// WithClock replaces the timestamp source.
func (m *MemoryStore) WithClock(c Clock) *MemoryStore {
	m.now = c
	return m
}

func (m *MemoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", unavailable("insert into", collection, err)
	}
	doc, err := normalize(stamp(fields, m.now()))
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()
	doc[IDField] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], doc)
	return id, nil
}

func (m *MemoryStore) Query(ctx context.Context, collection string, filter Fields, limit int64) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("query", collection, err)
	}
	want, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	limit = normalizeLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Record{}
	for _, doc := range m.collections[collection] {
		if int64(len(out)) >= limit {
			break
		}
		if !matches(doc, want) {
			continue
		}
		cp, err := normalize(Fields(doc))
		if err != nil {
			return nil, err
		}
		out = append(out, Record(cp))
	}
	return out, nil
}

// Len returns the number of records in a collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func matches(doc, filter bson.M) bool {
	for k, v := range filter {
		got, ok := doc[k]
		if !ok || !equalValues(got, v) {
			return false
		}
	}
	return true
}

// equalValues compares numbers by value across int32, int64 and double, as Mongo does.
func equalValues(a, b any) bool {
	fa, okA := number(a)
	fb, okB := number(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// normalize deep-copies fields through a bson round trip.
func normalize(fields Fields) (bson.M, error) {
	if len(fields) == 0 {
		return bson.M{}, nil
	}
	b, err := bson.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return out, nil
}

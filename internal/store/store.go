// Package store is the document persistence layer shared by every resource operation.
// Records live in named collections, are schema-less, and are only ever inserted and
// queried: callers that need "update" semantics insert a new record and re-read.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// IDField holds the opaque identifier assigned on Create.
	IDField = "_id"
	// CreatedAtField and UpdatedAtField are set on every insert, in float seconds since the epoch.
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"

	// DefaultLimit applies when Query is called with a non-positive limit.
	DefaultLimit int64 = 50
)

// ErrUnavailable marks infrastructure failures (connection loss, timeouts, cancelled calls).
var ErrUnavailable = errors.New("document store unavailable")

// Fields are caller-supplied record contents or exact-match filters.
type Fields map[string]any

// Record is a stored document. Its IDField entry is always the string id returned by Create.
type Record map[string]any

// ID returns the record identifier.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Store creates and queries records in named collections.
type Store interface {
	// Create inserts fields plus creation/update timestamps as a new record and returns its id.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Query returns up to limit records whose fields equal every filter entry, in store order.
	Query(ctx context.Context, collection string, filter Fields, limit int64) ([]Record, error)
}

// Clock returns the current time; stores take one so tests can pin timestamps.
type Clock func() time.Time

// Decode copies a record into a bson-tagged struct.
func Decode(rec Record, v any) error {
	b, err := bson.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := bson.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// stamp returns a copy of fields with both timestamps set to now and any caller _id removed.
func stamp(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields)+2)
	for k, v := range fields {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	ts := float64(now.UnixNano()) / 1e9
	out[CreatedAtField] = ts
	out[UpdatedAtField] = ts
	return out
}

func normalizeLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func unavailable(op, collection string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, collection, ErrUnavailable, err)
}

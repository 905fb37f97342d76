package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over a MongoDB database. Each Store collection maps to the
// Mongo collection of the same name; ids are the hex form of the generated ObjectID.
type MongoStore struct {
	db  *mongo.Database
	now Clock
}

// NewMongoStore wraps an already connected database handle. The caller owns the client
// and disconnects it at shutdown.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now}
}

// WithClock replaces the timestamp source.
func (m *MongoStore) WithClock(c Clock) *MongoStore {
	m.now = c
	return m
}

func (m *MongoStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	doc := bson.M(stamp(fields, m.now()))
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", unavailable("insert into", collection, err)
	}
	return idString(res.InsertedID), nil
}

func (m *MongoStore) Query(ctx context.Context, collection string, filter Fields, limit int64) ([]Record, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	opts := options.Find().SetLimit(normalizeLimit(limit))
	cur, err := m.db.Collection(collection).Find(ctx, f, opts)
	if err != nil {
		return nil, unavailable("query", collection, err)
	}
	defer cur.Close(ctx)

	out := []Record{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", collection, err)
		}
		doc[IDField] = idString(doc[IDField])
		out = append(out, Record(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("query", collection, err)
	}
	return out, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

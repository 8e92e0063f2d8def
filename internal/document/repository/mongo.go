package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type fileDoc struct {
	Key    string `bson:"_id"`
	Record string `bson:"record"`
	Name   string `bson:"name"`
	Data   []byte `bson:"data"`
}

// Mongo stores one collection document per file, keyed "<id>/<name>".
// Files are bounded by the 16MB document limit.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

// EnsureIndexes creates the index ListRecords and RecordExists rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "record", Value: 1}}})
	return err
}

func (m *Mongo) CreateRecord(context.Context, string) error { return nil }

func (m *Mongo) RecordExists(ctx context.Context, id string) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{"record": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *Mongo) WriteFile(ctx context.Context, id, name string, data []byte) error {
	key := objectKey(id, name)
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": key},
		fileDoc{Key: key, Record: id, Name: name, Data: data},
		options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) ReadFile(ctx context.Context, id, name string) ([]byte, error) {
	key := objectKey(id, name)
	var d fileDoc
	err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return d.Data, nil
}

func (m *Mongo) ListRecords(ctx context.Context) ([]string, error) {
	vals, err := m.col.Distinct(ctx, "record", bson.D{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps collections as documents of a single "documents" collection.
type MongoStore struct {
	client *mongo.Client
	docs   *mongo.Collection
}

// OpenMongoStore connects to uri and uses database.
func OpenMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, ioError("connect", "mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ioError("ping", "mongo", err)
	}
	return &MongoStore{
		client: client,
		docs:   client.Database(database).Collection("documents"),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) ([]byte, error) {
	var doc mongoDocument
	err := s.docs.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, ioError("find", name, err)
	}
	return []byte(doc.Body), nil
}

func (s *MongoStore) Save(ctx context.Context, name string, doc []byte) error {
	row := mongoDocument{Name: name, Body: string(doc), UpdatedAt: time.Now()}
	_, err := s.docs.ReplaceOne(ctx, bson.M{"_id": name}, row, options.Replace().SetUpsert(true))
	if err != nil {
		return ioError("replace", name, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

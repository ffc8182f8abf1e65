package db

import (
	"context"
	"errors"
	"fmt"

	"college_api/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore хранит документы в MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore создаёт клиента MongoDB; соединение устанавливается лениво.
func NewMongoStore(ctx context.Context, uri, name string) (*MongoStore, error) {
	if name == "" {
		return nil, errors.New("database name is required for mongodb")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}
	logger.Log.WithFields(logger.Fields{
		"backend":  "mongodb",
		"database": name,
	}).Info("Mongo client created")
	return &MongoStore{client: client, db: client.Database(name)}, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

// ListRecent сортирует по _id по убыванию: ObjectID растёт со временем вставки.
func (s *MongoStore) ListRecent(ctx context.Context, collection string, limit int, visit func(string, Decoder) error) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var meta struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&meta); err != nil {
			return err
		}
		if err := visit(idString(meta.ID), cur.Decode); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (s *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func (s *MongoStore) Name() string {
	return s.db.Name()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

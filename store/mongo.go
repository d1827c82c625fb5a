package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/tryon-studio/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const outfitsCollection = "saved_outfits"

type outfitsDocument struct {
	Key     string               `bson:"_id"`
	Outfits []models.SavedOutfit `bson:"outfits"`
}

// MongoStore keeps the list in a single document keyed by Key.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	Key        string
}

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

func NewMongoStore(client *mongo.Client, database, key string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(outfitsCollection),
		Key:        key,
	}
}

func (s *MongoStore) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	var doc outfitsDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": s.Key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved outfits: %w", err)
	}
	return doc.Outfits, nil
}

func (s *MongoStore) Save(ctx context.Context, outfits []models.SavedOutfit) error {
	if outfits == nil {
		outfits = []models.SavedOutfit{}
	}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": s.Key},
		outfitsDocument{Key: s.Key, Outfits: outfits},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write saved outfits: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionRecord is the persisted shape: one JSON blob per session, keyed by
// session ID. The blob is opaque to Mongo on purpose, matching the
// whole-state-replace contract.
type sessionRecord struct {
	SessionID string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection("sessions"),
	}
}

func (m *mongoRepository) GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	var record sessionRecord

	filter := bson.M{"_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal(record.Payload, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session blob: %w", err)
	}

	return &state, nil
}

func (m *mongoRepository) UpsertSession(ctx context.Context, state *domain.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session blob: %w", err)
	}

	record := sessionRecord{
		SessionID: state.SessionID,
		Payload:   payload,
		UpdatedAt: state.UpdatedAt,
	}

	filter := bson.M{"_id": state.SessionID}
	opts := options.Replace().SetUpsert(true)

	_, err = m.collection.ReplaceOne(ctx, filter, record, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

func (m *mongoRepository) DeleteSession(ctx context.Context, sessionID string) error {
	filter := bson.M{"_id": sessionID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 60 * 60), // 30 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

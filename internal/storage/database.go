package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/newsbot/internal/types"
)

// MongoStorage mirrors records into a MongoDB collection on Close.
type MongoStorage struct {
	client     *mongo.Client // owned; nil when the caller manages the connection
	collection *mongo.Collection
	records    []types.ArticleRecord
	scrapedAt  time.Time
	mu         sync.Mutex
	logger     *slog.Logger
}

// NewMongoStorage connects to uri and pings it.
func NewMongoStorage(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}
	if err := client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(context.Background()); derr != nil {
			logger.Warn("failed to disconnect from mongodb", "component", "mongo_storage", "error", derr)
		}
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	s := newMongoStorage(client.Database(database).Collection(collection), logger)
	s.client = client
	return s, nil
}

// newMongoStorage mirrors into coll without taking ownership of its client.
func newMongoStorage(coll *mongo.Collection, logger *slog.Logger) *MongoStorage {
	return &MongoStorage{
		collection: coll,
		scrapedAt:  time.Now().UTC(),
		logger:     logger.With("component", "mongo_storage"),
	}
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Store(records []types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// Close inserts one document per buffered record, then disconnects an
// owned client.
func (s *MongoStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.disconnect()

	if len(s.records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	docs := make([]any, len(s.records))
	for i, r := range s.records {
		docs[i] = mongoDocument{ArticleRecord: r, ScrapedAt: s.scrapedAt, Position: i}
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("insert: %w", err)}
	}

	s.logger.Info("records mirrored to mongodb", "records", len(docs))
	return nil
}

func (s *MongoStorage) disconnect() {
	if s.client == nil {
		return
	}
	if err := s.client.Disconnect(context.Background()); err != nil {
		s.logger.Warn("failed to disconnect from mongodb", "error", err)
	}
}

type mongoDocument struct {
	types.ArticleRecord `bson:",inline"`
	ScrapedAt           time.Time `bson:"scraped_at"`
	Position            int       `bson:"position"`
}

// --- Multi-Storage Fan-Out ---

// MultiStorage writes records to several backends.
type MultiStorage struct {
	backends []Storage
	logger   *slog.Logger
}

// NewMultiStorage creates a storage that fans out to multiple backends.
func NewMultiStorage(backends []Storage, logger *slog.Logger) *MultiStorage {
	return &MultiStorage{
		backends: backends,
		logger:   logger.With("component", "multi_storage"),
	}
}

func (s *MultiStorage) Name() string { return "multi" }

func (s *MultiStorage) Store(records []types.ArticleRecord) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Store(records); err != nil {
			s.logger.Error("backend store failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close closes every backend and returns the first error.
func (s *MultiStorage) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil {
			s.logger.Error("backend close failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

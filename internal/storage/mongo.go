// Package storage owns the process-wide MongoDB handle. The connection is
// established on first use and reused for the process lifetime; a failed
// attempt surfaces to the triggering caller and resets the handle so the next
// caller retries.
package storage

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/carebook/carebook/pkg/logging"
)

type connectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Store lazily connects to MongoDB and hands out database handles.
type Store struct {
	mu      sync.Mutex
	uri     string
	dbName  string
	logger  *logging.Logger
	connect connectFunc
	client  *mongo.Client
}

// New builds a store for the given connection string and database name.
// No connection is attempted until the first Database call.
func New(uri, dbName string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{uri: uri, dbName: dbName, logger: logger, connect: dial}
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// Database returns the shared database handle, connecting on first use.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := s.connect(ctx, s.uri)
		if err != nil {
			return nil, fmt.Errorf("storage: connect to mongodb: %w", err)
		}
		s.logger.Info("mongodb connected", "database", s.dbName)
		s.client = client
	}
	return s.client.Database(s.dbName), nil
}

// Collection resolves a collection on the shared database handle.
func (s *Store) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := s.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Close disconnects the client if one was established.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

package database

import (
	"context"
	"errors"

	"crud-service/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("store is not connected")

// MongodbDB holds the Mongo client once Connect has succeeded.
type MongodbDB struct {
	Client *mongo.Client
	DB     *mongo.Database

	cfg    *config.Config
	logger *zap.Logger
}

// NewDatabase prepares a Mongo handle; no network traffic happens until Connect.
func NewDatabase(cfg *config.Config, logger *zap.Logger) *MongodbDB {
	return &MongodbDB{cfg: cfg, logger: logger}
}

// Connect dials MongoDB and pings it. A failed attempt leaves the handle unconnected.
func (m *MongodbDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	// A retry after a later setup failure must not strand the previous client.
	if m.Client != nil {
		_ = m.Close(ctx)
	}

	m.logger.Info("connecting to MongoDB", zap.String("database", m.cfg.DBName))

	opts := options.Client().
		ApplyURI(m.cfg.MongoURI).
		SetMaxPoolSize(uint64(m.cfg.MongoMaxPoolSize)).
		SetServerSelectionTimeout(m.cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}

	m.Client = client
	m.DB = client.Database(m.cfg.DBName)
	m.logger.Info("connected to MongoDB successfully")
	return nil
}

func (m *MongodbDB) Collection(name string) (*mongo.Collection, error) {
	if m.DB == nil {
		return nil, ErrNotConnected
	}
	return m.DB.Collection(name), nil
}

func (m *MongodbDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	m.logger.Info("disconnecting from MongoDB")
	err := m.Client.Disconnect(ctx)
	m.Client, m.DB = nil, nil
	return err
}

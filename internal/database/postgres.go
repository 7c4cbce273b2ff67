package database

import (
	"context"

	"crud-service/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresDB holds the pgx pool once Connect has succeeded.
type PostgresDB struct {
	Pool *pgxpool.Pool

	cfg    *config.Config
	logger *zap.Logger
}

func NewPostgres(cfg *config.Config, logger *zap.Logger) *PostgresDB {
	return &PostgresDB{cfg: cfg, logger: logger}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()

	p.logger.Info("connecting to PostgreSQL")

	pool, err := pgxpool.New(ctx, p.cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return err
	}

	p.Pool = pool
	p.logger.Info("connected to PostgreSQL successfully")
	return nil
}

func (p *PostgresDB) Close(context.Context) error {
	if p.Pool == nil {
		return nil
	}
	p.logger.Info("closing PostgreSQL pool")
	p.Pool.Close()
	p.Pool = nil
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrIntervalNotSupported = errors.New("timeframe not supported")
	ErrAssetNotFound        = errors.New("not found in datasource")
	ErrNoBars               = errors.New("no bars found in datasource")
)

type assetsRepository interface {
	getAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
}
type barsRepository interface {
	getAggregates(ctx context.Context, arg aggregateParams) ([]barRow, error)
}

// Database holds the connection pool and the query surface the engine's
// collaborators read bars from.
type Database struct {
	assets assetsRepository
	bars   barsRepository
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	queries := &pgQueries{pool: conn}
	return Database{
		assets: queries,
		bars:   queries,
		conn:   conn,
	}, nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}

type aggregateParams struct {
	timeBucket string
	assetID    int32
	start      time.Time
	end        time.Time
}

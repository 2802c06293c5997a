package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const getAssetByTickerSQL = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1`

const getAggregatesSQL = `
SELECT time_bucket($1::interval, timestamp) AS bucket,
       first(open, timestamp)               AS open,
       max(high)                            AS high,
       min(low)                             AS low,
       last(close, timestamp)               AS close,
       sum(volume)                          AS volume
FROM candles
WHERE asset_id = $2
  AND timestamp >= $3
  AND timestamp < $4
GROUP BY bucket
ORDER BY bucket`

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type barRow struct {
	Bucket *time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// pgQueries runs the raw SQL against a pgx pool. The candles table is a
// TimescaleDB hypertable; aggregates are bucketed server-side.
type pgQueries struct {
	pool *pgxpool.Pool
}

func (q *pgQueries) getAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, getAssetByTickerSQL, ticker).
		Scan(&row.ID, &row.Ticker, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	if err != nil {
		return assetRow{}, err
	}
	return row, nil
}

func (q *pgQueries) getAggregates(ctx context.Context, arg aggregateParams) ([]barRow, error) {
	rows, err := q.pool.Query(ctx, getAggregatesSQL, arg.timeBucket, arg.assetID, arg.start, arg.end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (barRow, error) {
		var r barRow
		err := row.Scan(&r.Bucket, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume)
		return r, err
	})
}

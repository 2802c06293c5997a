package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"trendscan/types"
)

var bucketToInterval = map[types.Interval]string{
	types.Hour: "1 hour",
	types.Day:  "1 day",
	types.Week: "1 week",
}

// GetBars returns bucketed OHLCV bars for one asset, chronological, with
// unique timestamps.
func (db *Database) GetBars(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Bar, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	args := aggregateParams{
		timeBucket: bucket,
		assetID:    int32(assetId),
		start:      start,
		end:        end,
	}
	rows, err := db.bars.getAggregates(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoBars
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoBars
	}
	return convertBars(rows, interval, assetId, ticker), nil
}

func convertBars(rows []barRow, interval types.Interval, assetId int, ticker string) []types.Bar {
	var bars []types.Bar
	for _, row := range rows {
		bars = append(bars, types.Bar{
			AssetId:   assetId,
			Ticker:    ticker,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
			Interval:  interval,
			Timestamp: *row.Bucket,
		})
	}
	return bars
}

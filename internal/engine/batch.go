package engine

import (
	"context"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"trendscan/types"
)

// Feed pairs an instrument with its loaded bar series.
type Feed struct {
	Ticker string
	Bars   []types.Bar
}

// BatchOptions tune RunBatch. Zero values mean: one worker per CPU, no
// progress bar.
type BatchOptions struct {
	Workers  int
	Progress bool
}

// RunBatch replays every feed through Run. Instruments share no state, so
// replays fan out across a bounded worker pool; results come back in feed
// order. A failing instrument contributes its degenerate result and never
// aborts the batch. The only returned errors are invalid configuration and
// context cancellation.
func RunBatch(ctx context.Context, feeds []Feed, cfg Config, opts BatchOptions) ([]types.BacktestResult, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = initProgressBar(len(feeds))
	}

	results := make([]types.BacktestResult, len(feeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(feed.Ticker, feed.Bars, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

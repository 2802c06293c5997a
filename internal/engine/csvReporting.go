package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"trendscan/types"
)

// WriteTradesCSVFile writes a trade history to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return WriteTradesCSV(f, trades)
}

// WriteTradesCSV writes trades to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func WriteTradesCSV(w io.Writer, trades []types.Trade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"trade_id",
		"ticker",
		"entry_date",
		"entry_price",
		"exit_date",
		"exit_price",
		"shares",
		"profit",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.ID,
			t.Ticker,
			t.EntryDate.Format(time.RFC3339),
			t.EntryPrice.String(),
			t.ExitDate.Format(time.RFC3339),
			t.ExitPrice.String(),
			t.Shares.String(),
			t.Profit.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

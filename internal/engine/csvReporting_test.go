package engine

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trendscan/types"
)

func sampleTrade() types.Trade {
	return types.Trade{
		ID:         "0b0e5fb3-6f8a-4a8c-9a43-0f3a1c2d4e5f",
		Ticker:     "AAPL",
		EntryDate:  time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
		EntryPrice: decimal.RequireFromString("15"),
		ExitDate:   time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC),
		ExitPrice:  decimal.RequireFromString("9"),
		Shares:     decimal.NewFromInt(666),
		Profit:     decimal.NewFromInt(-3996),
	}
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTradesCSV(&buf, []types.Trade{sampleTrade()}); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "trade_id" || records[0][7] != "profit" {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	want := []string{
		"0b0e5fb3-6f8a-4a8c-9a43-0f3a1c2d4e5f",
		"AAPL",
		"2020-02-03T00:00:00Z",
		"15",
		"2020-03-02T00:00:00Z",
		"9",
		"666",
		"-3996",
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestWriteTradesCSV_EmptyHistoryStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTradesCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want header only", len(records))
	}
}

func TestWriteTradesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := WriteTradesCSVFile(path, []types.Trade{sampleTrade()}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("trades file is empty")
	}
}

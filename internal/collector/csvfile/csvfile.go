// Package csvfile loads daily bars from a local CSV file, for offline
// and regression runs where the network collector is unusable.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantkit/crossbt/internal/core"
)

// Loader reads bars from a CSV file with the header
// date,open,high,low,close,volume and dates formatted YYYY-MM-DD.
// It implements backtest.BarProvider; the symbol argument is ignored.
type Loader struct {
	path string
}

// New creates a Loader for the given file path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// FetchDaily reads the file and returns bars within [start, end]. A
// zero start or end leaves that side unbounded. Rows must be in
// ascending date order with no duplicate dates.
func (l *Loader) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	// Header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var bars []core.PriceBar
	var prevDate time.Time
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", l.path, err)
		}
		line++

		bar, err := parseBar(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", l.path, line, err)
		}
		if !prevDate.IsZero() && !bar.Date.After(prevDate) {
			return nil, fmt.Errorf("%s line %d: dates must be strictly ascending", l.path, line)
		}
		prevDate = bar.Date

		if !start.IsZero() && bar.Date.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Date.After(end) {
			continue
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func parseBar(record []string) (core.PriceBar, error) {
	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return core.PriceBar{}, fmt.Errorf("bad date %q: %w", record[0], err)
	}

	fields := make([]float64, 4)
	for i, raw := range record[1:5] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.PriceBar{}, fmt.Errorf("bad value %q: %w", raw, err)
		}
		fields[i] = v
	}

	volume, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return core.PriceBar{}, fmt.Errorf("bad volume %q: %w", record[5], err)
	}

	return core.PriceBar{
		Date:   date,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: volume,
	}, nil
}

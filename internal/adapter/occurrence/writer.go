package occurrence

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Writer persists the cleaned table as comma-separated text.
// It implements pipeline.TableLoader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path. Parent directories are created on Load.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// Load writes the header and every kept row in order, replacing any existing file.
func (w *Writer) Load(ctx context.Context, table domain.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create cleaned table dir: %w", err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create cleaned table: %w", err)
	}

	if err := writeTable(f, table.Rows()); err != nil {
		f.Close()
		return fmt.Errorf("write cleaned table %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close cleaned table: %w", err)
	}

	w.logger.Info("cleaned table written", "path", w.path, "rows", len(table.Observations))
	return nil
}

func writeTable(f *os.File, records [][]string) error {
	// gota cannot build a frame without data rows; an empty table is header only.
	if len(records) == 1 {
		cw := csv.NewWriter(f)
		if err := cw.Write(records[0]); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(f)
}

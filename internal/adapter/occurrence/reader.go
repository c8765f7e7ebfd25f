package occurrence

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Reader loads a delimited occurrence file into a raw table.
// It implements pipeline.Extractor.
type Reader struct {
	path      string
	delimiter rune
	logger    *slog.Logger
}

// NewReader creates a Reader for a file with a header row.
func NewReader(path string, delimiter rune, logger *slog.Logger) *Reader {
	return &Reader{path: path, delimiter: delimiter, logger: logger}
}

// Extract reads the whole file. A missing or empty file, a ragged row, a
// field spanning lines or a header without the required columns aborts the
// load; nothing is partially returned.
func (r *Reader) Extract(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open occurrence file: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f, r.delimiter)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", r.path, err)
	}
	if len(records) < 2 {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", r.path, domain.ErrEmptyInput)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", r.path, df.Err)
	}

	table, err := toRawTable(df)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.logger.Info("occurrence file loaded",
		"path", r.path,
		"rows", len(table.Records),
		"columns", df.Ncol(),
	)
	return table, nil
}

// readRecords splits the input into records the way dataframe.ReadCSV does,
// with lazy quotes since GBIF leaves fields unquoted. A stray quote opens a
// field that swallows the following rows, so any field holding a line break
// is rejected.
func readRecords(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true

	var records [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		for i, field := range record {
			if strings.ContainsAny(field, "\r\n") {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("line %d field %d spans lines, check for an unbalanced quote: %w",
					line, i+1, domain.ErrMalformedInput)
			}
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// toRawTable resolves the header of df and maps every data row.
func toRawTable(df dataframe.DataFrame) (domain.RawTable, error) {
	layout, err := domain.ResolveColumns(df.Names())
	if err != nil {
		return domain.RawTable{}, err
	}

	rows := df.Records()[1:] // first row is the header
	table := domain.RawTable{
		Layout:  layout,
		Records: make([]domain.RawRecord, len(rows)),
	}
	for i, row := range rows {
		table.Records[i] = layout.Record(row, i+1)
	}
	return table, nil
}

// Package importer loads vocabulary items from .xlsx and .csv files.
//
// Columns, in order: word, transliteration, translation, difficulty, tags,
// examples. Tags are separated by "," or ";", examples by "|". A first row
// whose first cell is "word" is treated as a header.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// Import result labels reported to the observer.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported import format")

type vocabularyStore interface {
	Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type importObserver interface {
	ObserveImport(result string, n int)
}

// Importer upserts parsed rows into the vocabulary store.
type Importer struct {
	log      *slog.Logger
	items    vocabularyStore
	tx       txManager
	observer importObserver
}

// New creates an Importer. observer may be nil.
func New(log *slog.Logger, items vocabularyStore, tx txManager, observer importObserver) *Importer {
	return &Importer{
		log:      log.With("service", "importer"),
		items:    items,
		tx:       tx,
		observer: observer,
	}
}

// Options controls how a file is read.
type Options struct {
	// Sheet selects the worksheet of an .xlsx file; empty means the first one.
	Sheet string
}

// RowError describes a row that could not be imported. Row is 1-based.
type RowError struct {
	Row     int
	Message string
}

// Report summarises an import.
type Report struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Errors    []RowError
}

// ImportFile picks the reader by file extension.
func (im *Importer) ImportFile(ctx context.Context, path string, opts Options) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return im.ImportXLSX(ctx, f, opts)
	case ".csv":
		return im.ImportCSV(ctx, f)
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ImportCSV reads comma-separated rows from r.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("read csv: %w", err)
	}
	return im.importRows(ctx, "csv", rows)
}

// ImportXLSX reads rows from a spreadsheet.
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader, opts Options) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Report{}, errors.New("open xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Report{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return im.importRows(ctx, "xlsx", rows)
}

func (im *Importer) importRows(ctx context.Context, format string, rows [][]string) (Report, error) {
	var report Report

	err := im.tx.RunInTx(ctx, func(txCtx context.Context) error {
		report = Report{}
		for i, row := range rows {
			rowNum := i + 1
			if i == 0 && isHeader(row) {
				continue
			}
			if isBlank(row) {
				continue
			}

			report.Processed++

			item, err := parseRow(row)
			if err != nil {
				report.Skipped++
				report.Errors = append(report.Errors, RowError{Row: rowNum, Message: err.Error()})
				continue
			}

			created, err := im.items.Upsert(txCtx, item)
			if err != nil {
				return fmt.Errorf("row %d: upsert %q: %w", rowNum, item.Word, err)
			}
			if created {
				report.Created++
			} else {
				report.Updated++
			}
		}
		return nil
	})
	if err != nil {
		if im.observer != nil {
			im.observer.ObserveImport(ResultFailed, 1)
		}
		return Report{}, err
	}

	if im.observer != nil {
		im.observer.ObserveImport(ResultCreated, report.Created)
		im.observer.ObserveImport(ResultUpdated, report.Updated)
		im.observer.ObserveImport(ResultSkipped, report.Skipped)
	}

	im.log.InfoContext(ctx, "vocabulary imported",
		slog.String("format", format),
		slog.Int("processed", report.Processed),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped),
	)
	for _, re := range report.Errors {
		im.log.WarnContext(ctx, "import row skipped", slog.Int("row", re.Row), slog.String("reason", re.Message))
	}

	return report, nil
}

func parseRow(row []string) (*domain.VocabularyItem, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	item := &domain.VocabularyItem{
		Word:            col(0),
		Transliteration: col(1),
		Translation:     col(2),
		Difficulty:      domain.DifficultyBeginner,
		Tags:            splitList(col(4), ",;"),
		Examples:        splitList(col(5), "|"),
	}

	if item.Word == "" {
		return nil, errors.New("word is empty")
	}
	if item.Translation == "" {
		return nil, errors.New("translation is empty")
	}
	if d := col(3); d != "" {
		item.Difficulty = domain.DifficultyTier(strings.ToLower(d))
		if !item.Difficulty.IsValid() {
			return nil, fmt.Errorf("unknown difficulty %q", d)
		}
	}
	return item, nil
}

func splitList(s, seps string) []string {
	out := []string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(seps, r) }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "word")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

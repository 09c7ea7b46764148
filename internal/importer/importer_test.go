package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/lexitrack/internal/adapter/memory"
	"github.com/heartmarshall/lexitrack/internal/domain"
)

// recordingStore wraps the in-memory vocabulary repo and keeps a copy of
// every upserted item.
type recordingStore struct {
	inner *memory.VocabularyRepo
	items []domain.VocabularyItem
	err   error
}

func (s *recordingStore) Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	created, err := s.inner.Upsert(ctx, item)
	if err == nil {
		s.items = append(s.items, *item)
	}
	return created, err
}

type observerStub struct {
	counts map[string]int
}

func (o *observerStub) ObserveImport(result string, n int) {
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[result] += n
}

type fixture struct {
	store    *memory.Store
	rec      *recordingStore
	observer *observerStub
	im       *Importer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	rec := &recordingStore{inner: store.Vocabulary}
	obs := &observerStub{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{store: store, rec: rec, observer: obs, im: New(log, rec, store.Tx, obs)}
}

const sampleCSV = `word,transliteration,translation,difficulty,tags,examples
hola,,hello,beginner,"greeting;basic","¡Hola, amigo!|Hola a todos"
, ,missing word,,,
perro,,dog,Intermediate,animal,
gato,,,beginner,,
casa,,house,expert,,

Hola,,hi,,,
`

func TestImportCSV(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	report, err := f.im.ImportCSV(ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 6, report.Processed)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 3, report.Skipped)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, RowError{Row: 3, Message: "word is empty"}, report.Errors[0])
	assert.Equal(t, RowError{Row: 5, Message: "translation is empty"}, report.Errors[1])
	assert.Equal(t, 6, report.Errors[2].Row)
	assert.Contains(t, report.Errors[2].Message, "expert")

	n, err := f.store.Vocabulary.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, f.rec.items, 3)
	hola := f.rec.items[0]
	assert.Equal(t, "hello", hola.Translation)
	assert.Equal(t, []string{"greeting", "basic"}, hola.Tags)
	assert.Equal(t, []string{"¡Hola, amigo!", "Hola a todos"}, hola.Examples)
	assert.Equal(t, domain.DifficultyIntermediate, f.rec.items[1].Difficulty)
	assert.Equal(t, hola.ID, f.rec.items[2].ID)

	assert.Equal(t, map[string]int{ResultCreated: 2, ResultUpdated: 1, ResultSkipped: 3}, f.observer.counts)
}

func TestImportCSV_StoreFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	errBoom := errors.New("disk full")
	f.rec.err = errBoom

	_, err := f.im.ImportCSV(context.Background(), strings.NewReader("sol,,sun\n"))
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), `row 1: upsert "sol"`)
	assert.Equal(t, 1, f.observer.counts[ResultFailed])
}

func TestImportCSV_Malformed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.im.ImportCSV(context.Background(), strings.NewReader("\"unterminated,,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read csv")
}

func writeWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	if sheet != "Sheet1" {
		_, err := wb.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow(sheet, cell, &r))
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buf := writeWorkbook(t, "Sheet1", [][]any{
		{"Word", "Transliteration", "Translation", "Difficulty", "Tags", "Examples"},
		{"sol", "", "sun", "beginner", "nature", "El sol brilla"},
		{"luna", "", "moon", "advanced", "nature,night", ""},
	})

	report, err := f.im.ImportXLSX(context.Background(), buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Created: 2}, report)

	require.Len(t, f.rec.items, 2)
	assert.Equal(t, []string{"El sol brilla"}, f.rec.items[0].Examples)
	assert.Equal(t, []string{"nature", "night"}, f.rec.items[1].Tags)
	assert.Equal(t, domain.DifficultyAdvanced, f.rec.items[1].Difficulty)
}

func TestImportXLSX_NamedSheet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buf := writeWorkbook(t, "Verbs", [][]any{{"correr", "", "to run"}})

	report, err := f.im.ImportXLSX(context.Background(), bytes.NewReader(buf.Bytes()), Options{Sheet: "Verbs"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	_, err = f.im.ImportXLSX(context.Background(), bytes.NewReader(buf.Bytes()), Options{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestImportFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "words.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("agua,,water\n"), 0o600))

	xlsxPath := filepath.Join(dir, "words.xlsx")
	buf := writeWorkbook(t, "Sheet1", [][]any{{"fuego", "", "fire"}})
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o600))

	txtPath := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))

	f := newFixture(t)
	ctx := context.Background()

	report, err := f.im.ImportFile(ctx, csvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	report, err = f.im.ImportFile(ctx, xlsxPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	_, err = f.im.ImportFile(ctx, txtPath, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = f.im.ImportFile(ctx, filepath.Join(dir, "missing.csv"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, splitList("", ","))
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a ; b,, c ", ",;"))
	assert.Equal(t, []string{"x, y", "z"}, splitList("x, y | z", "|"))
}

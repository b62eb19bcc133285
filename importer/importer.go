package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// DefaultBatchSize bounds how many records are held in memory per insert.
const DefaultBatchSize = 500

// maxWarnings caps the warnings kept on a Result; all are still logged.
const maxWarnings = 100

// Sink persists mapped records.
type Sink[T any] interface {
	InsertBatch(ctx context.Context, recs []T) (int, error)
	Insert(ctx context.Context, rec T) error
}

// Warning describes a recovered problem on one row.
type Warning struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Column == "" {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s", w.Row, w.Column, w.Message)
}

// Result summarizes an import.
type Result struct {
	Read     int       `json:"read"`
	Inserted int       `json:"inserted"`
	Skipped  int       `json:"skipped"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Importer streams rows from a reader into a sink in batches.
type Importer[T any] struct {
	mapping   Mapping[T]
	sink      Sink[T]
	batchSize int
	logger    *slog.Logger
}

// Option is a functional option for Importer
type Option func(*options)

type options struct {
	batchSize int
	logger    *slog.Logger
}

// WithBatchSize sets the insert batch size.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithLogger sets the logger for progress and row warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an importer for mapping into sink.
func New[T any](mapping Mapping[T], sink Sink[T], opts ...Option) *Importer[T] {
	o := options{batchSize: DefaultBatchSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Importer[T]{
		mapping:   mapping,
		sink:      sink,
		batchSize: o.batchSize,
		logger:    o.logger,
	}
}

// Run imports every row. Bad cells and bad rows are recorded as warnings and
// never abort the import; only reader and context errors do.
func (im *Importer[T]) Run(ctx context.Context, rows RowReader) (*Result, error) {
	res := &Result{}
	header := rows.Header()
	batch := make([]T, 0, im.batchSize)
	lines := make([]int, 0, im.batchSize)
	line := 1

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		cells, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			if errors.Is(err, ErrBadRow) {
				im.warn(res, Warning{Row: line, Message: err.Error()})
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if blankRow(cells) {
			continue
		}
		res.Read++

		rec, ok := im.mapRow(res, line, header, cells)
		if !ok {
			res.Skipped++
			continue
		}
		batch = append(batch, rec)
		lines = append(lines, line)

		if len(batch) >= im.batchSize {
			im.flush(ctx, res, batch, lines)
			batch = batch[:0]
			lines = lines[:0]
			im.logger.Info("import progress", slog.Int("inserted", res.Inserted))
		}
	}

	if len(batch) > 0 {
		im.flush(ctx, res, batch, lines)
	}
	im.logger.Info("import finished",
		slog.Int("read", res.Read),
		slog.Int("inserted", res.Inserted),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

func (im *Importer[T]) mapRow(res *Result, line int, header, cells []string) (T, bool) {
	var rec T
	for i, column := range header {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		set, known := im.mapping.Columns[column]
		if !known {
			if im.mapping.Extra != nil && column != "" {
				im.mapping.Extra(&rec, column, value)
			}
			continue
		}
		if err := set(&rec, value); err != nil {
			im.warn(res, Warning{Row: line, Column: column, Message: err.Error()})
		}
	}
	if im.mapping.Finalize != nil {
		if err := im.mapping.Finalize(&rec); err != nil {
			im.warn(res, Warning{Row: line, Message: err.Error()})
			return rec, false
		}
	}
	return rec, true
}

// flush inserts a batch, falling back to one insert per record when the
// batch fails so one bad row cannot sink the rest.
func (im *Importer[T]) flush(ctx context.Context, res *Result, batch []T, lines []int) {
	n, err := im.sink.InsertBatch(ctx, batch)
	if err == nil {
		res.Inserted += n
		return
	}
	im.logger.Warn("batch insert failed, retrying row by row",
		slog.Int("size", len(batch)),
		slog.Any("error", err))

	for i, rec := range batch {
		if err := im.sink.Insert(ctx, rec); err != nil {
			im.warn(res, Warning{Row: lines[i], Message: fmt.Sprintf("insert failed: %v", err)})
			res.Skipped++
			continue
		}
		res.Inserted++
	}
}

func (im *Importer[T]) warn(res *Result, w Warning) {
	im.logger.Warn("import row warning", slog.String("warning", w.String()))
	if len(res.Warnings) < maxWarnings {
		res.Warnings = append(res.Warnings, w)
	}
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

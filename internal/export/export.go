package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kottster/adminkit/internal"
	"github.com/shopmonkeyus/go-common/logger"
)

// Format selects the output encoding for an export run.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// evictAfter bounds how long finished operation metadata stays queryable.
const evictAfter = time.Minute

const pageSize = 500

// Operation is the queryable state of one export run.
type Operation struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Format    Format    `json:"format"`
	StartedAt time.Time `json:"startedAt"`
	Rows      int       `json:"rows"`
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
}

// Exporter streams table records page by page into an encoder, tracking each
// run in an in-memory map. Entries evict one minute after completion; the map
// is a resource bound, not a persistence layer.
type Exporter struct {
	logger logger.Logger
	mu     sync.Mutex
	ops    map[string]*Operation
}

func New(log logger.Logger) *Exporter {
	return &Exporter{
		logger: log.WithPrefix("[export]"),
		ops:    make(map[string]*Operation),
	}
}

// Operation returns a snapshot of the run's state, or false if it finished
// more than a minute ago or never existed.
func (e *Exporter) Operation(id string) (Operation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, ok := e.ops[id]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

// Run exports every record of the table to w, reading pages until the
// adapter's count is exhausted. It returns the operation id; the operation
// stays queryable for a minute after the run ends.
func (e *Exporter) Run(ctx context.Context, adapter internal.RecordOperations, data *internal.TableData, format Format, w io.Writer) (string, error) {
	op := &Operation{
		ID:        uuid.NewString(),
		Table:     data.Config.Table,
		Format:    format,
		StartedAt: time.Now(),
	}
	e.mu.Lock()
	e.ops[op.ID] = op
	e.mu.Unlock()

	err := e.stream(ctx, adapter, data, format, w, op)

	e.mu.Lock()
	op.Done = true
	if err != nil {
		op.Error = err.Error()
	}
	e.mu.Unlock()
	time.AfterFunc(evictAfter, func() {
		e.mu.Lock()
		delete(e.ops, op.ID)
		e.mu.Unlock()
	})

	if err != nil {
		return op.ID, err
	}
	e.logger.Debug("exported %d rows from %s as %s", op.Rows, op.Table, format)
	return op.ID, nil
}

func (e *Exporter) stream(ctx context.Context, adapter internal.RecordOperations, data *internal.TableData, format Format, w io.Writer, op *Operation) error {
	var enc encoder
	switch format {
	case FormatCSV:
		enc = newCSVEncoder(w, data.SelectableColumns)
	case FormatJSON:
		enc = newJSONEncoder(w)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	input := internal.RecordsInput{Page: 1, PageSize: pageSize}
	for {
		result, err := adapter.GetRecords(ctx, data, input)
		if err != nil {
			return err
		}
		for _, record := range result.Records {
			if err := enc.write(record); err != nil {
				return err
			}
			e.mu.Lock()
			op.Rows++
			e.mu.Unlock()
		}
		if input.Page*input.PageSize >= result.TotalRecords || len(result.Records) == 0 {
			break
		}
		input.Page++
	}
	return enc.flush()
}

type encoder interface {
	write(record internal.Record) error
	flush() error
}

type csvEncoder struct {
	w       *csv.Writer
	columns []string
	started bool
}

func newCSVEncoder(w io.Writer, columns []string) *csvEncoder {
	return &csvEncoder{w: csv.NewWriter(w), columns: columns}
}

func (c *csvEncoder) write(record internal.Record) error {
	if !c.started {
		if err := c.w.Write(c.columns); err != nil {
			return err
		}
		c.started = true
	}
	row := make([]string, len(c.columns))
	for i, col := range c.columns {
		if val := record[col]; val != nil {
			row[i] = fmt.Sprintf("%v", val)
		}
	}
	return c.w.Write(row)
}

func (c *csvEncoder) flush() error {
	c.w.Flush()
	return c.w.Error()
}

type jsonEncoder struct {
	enc *json.Encoder
}

func newJSONEncoder(w io.Writer) *jsonEncoder {
	return &jsonEncoder{enc: json.NewEncoder(w)}
}

func (j *jsonEncoder) write(record internal.Record) error {
	return j.enc.Encode(record)
}

func (j *jsonEncoder) flush() error {
	return nil
}

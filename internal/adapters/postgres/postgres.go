package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	_ "github.com/lib/pq"
	"github.com/shopmonkeyus/go-common/logger"
)

type postgresAdapter struct {
	ctx        context.Context
	logger     logger.Logger
	db         *sql.DB
	schemaName string
	mapping    *internal.TypeMapping
	health     internal.HealthState
}

var _ internal.Adapter = (*postgresAdapter)(nil)

func (a *postgresAdapter) connectToDB(ctx context.Context, urlstr string) (*sql.DB, error) {
	dsn, err := getConnectionStringFromURL(urlstr)
	if err != nil {
		return nil, err
	}
	return util.OpenWithBackoff(ctx, a.logger, func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("unable to create connection: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	})
}

func (a *postgresAdapter) Dialect() string {
	return "postgres"
}

// Start connects the adapter's pool. Called once per instance.
func (a *postgresAdapter) Start(config internal.AdapterConfig) error {
	a.logger = config.Logger
	a.ctx = config.Context
	a.schemaName = config.SchemaName
	if a.schemaName == "" {
		a.schemaName = "public"
	}
	a.mapping = newTypeMapping(a.logger)
	db, err := a.connectToDB(config.Context, config.DSN)
	if err != nil {
		a.health = internal.HealthDisconnected
		return err
	}
	a.db = db
	a.health = internal.HealthConnected
	return nil
}

// Stop closes the pool. Called once at the end of the adapter's lifecycle.
func (a *postgresAdapter) Stop() error {
	if a.db != nil {
		a.logger.Debug("closing db")
		a.db.Close()
		a.db = nil
	}
	a.health = internal.HealthUnknown
	return nil
}

func (a *postgresAdapter) Health() internal.HealthState {
	return a.health
}

// Test checks connectivity with the given DSN without keeping state.
func (a *postgresAdapter) Test(ctx context.Context, log logger.Logger, dsn string) error {
	probe := &postgresAdapter{logger: log}
	db, err := probe.connectToDB(ctx, dsn)
	if err != nil {
		return err
	}
	return db.Close()
}

// Configuration returns the connection fields for the data source setup form.
func (a *postgresAdapter) Configuration() []internal.ConnectionField {
	return internal.NewDatabaseConfiguration(5432)
}

// GetRecords runs the list query plus a count query, coerces the page and
// attaches linked-record previews and counts for configured relationships.
func (a *postgresAdapter) GetRecords(ctx context.Context, data *internal.TableData, input internal.RecordsInput) (*internal.RecordsResult, error) {
	query, countQuery, args, err := buildListQuery(data, input)
	if err != nil {
		return nil, err
	}
	var total int
	if err := a.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("unable to count records: %w", err)
	}
	a.logger.Trace("sql: %s", query)
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query records: %w", err)
	}
	defer rows.Close()
	records, err := util.ScanRecords(rows, data, coerceValue)
	if err != nil {
		return nil, err
	}
	if err := a.attachLinkedRecords(ctx, data, records); err != nil {
		return nil, err
	}
	return &internal.RecordsResult{Records: records, TotalRecords: total}, nil
}

// attachLinkedRecords resolves one-to-one previews and one-to-many /
// many-to-many counts for every non-excluded relationship.
func (a *postgresAdapter) attachLinkedRecords(ctx context.Context, data *internal.TableData, records []internal.Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, rel := range data.Config.Relationships {
		if rel.Excluded {
			continue
		}
		switch rel.Relation {
		case internal.RelationOneToOne:
			if err := a.attachPreviews(ctx, rel, records); err != nil {
				return err
			}
		case internal.RelationOneToMany:
			if err := a.attachCounts(ctx, rel.Key, rel.TargetTable, rel.TargetTableForeignKeyColumn,
				data.PrimaryKeyColumn, records); err != nil {
				return err
			}
		case internal.RelationManyToMany:
			if err := a.attachCounts(ctx, rel.Key, rel.JunctionTable, rel.JunctionTableSourceKeyColumn,
				data.PrimaryKeyColumn, records); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *postgresAdapter) attachPreviews(ctx context.Context, rel internal.Relationship, records []internal.Record) error {
	keys := collectValues(records, rel.ForeignKeyColumn)
	if len(keys) == 0 || len(rel.PreviewColumns) == 0 {
		return nil
	}
	b := &builder{}
	placeholders := make([]string, len(keys))
	for i, key := range keys {
		placeholders[i] = b.add(key)
	}
	cols := []string{quoteIdentifier(rel.TargetTableKeyColumn)}
	for _, col := range rel.PreviewColumns {
		cols = append(cols, quoteIdentifier(col))
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)",
		strings.Join(cols, ", "), quoteIdentifier(rel.TargetTable),
		quoteIdentifier(rel.TargetTableKeyColumn), strings.Join(placeholders, ", "))
	rows, err := a.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return fmt.Errorf("unable to fetch linked records for %s: %w", rel.Key, err)
	}
	defer rows.Close()
	previews, err := util.ScanRecords(rows, nil, coerceValue)
	if err != nil {
		return err
	}
	byKey := make(map[string]internal.Record, len(previews))
	for _, preview := range previews {
		byKey[fmt.Sprintf("%v", preview[rel.TargetTableKeyColumn])] = preview
	}
	for _, record := range records {
		if val := record[rel.ForeignKeyColumn]; val != nil {
			if preview, ok := byKey[fmt.Sprintf("%v", val)]; ok {
				record[rel.Key] = preview
			}
		}
	}
	return nil
}

func (a *postgresAdapter) attachCounts(ctx context.Context, relKey, table, fkColumn, pkColumn string, records []internal.Record) error {
	keys := collectValues(records, pkColumn)
	if len(keys) == 0 {
		return nil
	}
	b := &builder{}
	placeholders := make([]string, len(keys))
	for i, key := range keys {
		placeholders[i] = b.add(key)
	}
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s WHERE %s IN (%s) GROUP BY %s",
		quoteIdentifier(fkColumn), quoteIdentifier(table),
		quoteIdentifier(fkColumn), strings.Join(placeholders, ", "), quoteIdentifier(fkColumn))
	rows, err := a.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return fmt.Errorf("unable to count linked records for %s: %w", relKey, err)
	}
	defer rows.Close()
	counts := make(map[string]int64)
	for rows.Next() {
		var key any
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		counts[fmt.Sprintf("%v", coerceValue(key, nil))] = count
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, record := range records {
		if val := record[pkColumn]; val != nil {
			record[relKey] = internal.Record{"count": counts[fmt.Sprintf("%v", val)]}
		}
	}
	return nil
}

func collectValues(records []internal.Record, column string) []any {
	seen := make(map[string]bool, len(records))
	var keys []any
	for _, record := range records {
		val := record[column]
		if val == nil {
			continue
		}
		s := fmt.Sprintf("%v", val)
		if !seen[s] {
			seen[s] = true
			keys = append(keys, val)
		}
	}
	return keys
}

// GetRecord fetches a single record by primary key value(s).
func (a *postgresAdapter) GetRecord(ctx context.Context, data *internal.TableData, key map[string]any) (internal.Record, error) {
	query, args := buildGetQuery(data, key)
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query record: %w", err)
	}
	defer rows.Close()
	records, err := util.ScanRecords(rows, data, coerceValue)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("record not found in table %s", data.Config.Table)
	}
	return records[0], nil
}

// CreateRecord inserts the values and returns the stored record.
func (a *postgresAdapter) CreateRecord(ctx context.Context, data *internal.TableData, values internal.Record) (internal.Record, error) {
	query, args := buildInsert(data, values)
	a.logger.Trace("sql: %s", query)
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to insert record: %w", err)
	}
	defer rows.Close()
	records, err := util.ScanRecords(rows, data, coerceValue)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insert into table %s returned no record", data.Config.Table)
	}
	return records[0], nil
}

// UpdateRecord updates the record addressed by key.
func (a *postgresAdapter) UpdateRecord(ctx context.Context, data *internal.TableData, key map[string]any, values internal.Record) error {
	query, args := buildUpdate(data, key, values)
	a.logger.Trace("sql: %s", query)
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unable to update record: %w", err)
	}
	return nil
}

// DeleteRecord deletes the record addressed by key.
func (a *postgresAdapter) DeleteRecord(ctx context.Context, data *internal.TableData, key map[string]any) error {
	query, args := buildDelete(data, key)
	a.logger.Trace("sql: %s", query)
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unable to delete record: %w", err)
	}
	return nil
}

// ExecuteQuery runs a raw developer-authored statement with pagination
// wrapping applied.
func (a *postgresAdapter) ExecuteQuery(ctx context.Context, query string, countQuery string, page, pageSize int) (*internal.RecordsResult, error) {
	if countQuery == "" {
		countQuery = fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS q", query)
	}
	var total int
	if err := a.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, fmt.Errorf("unable to count query results: %w", err)
	}
	rows, err := a.db.QueryContext(ctx, wrapPaginated(query, page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("unable to execute query: %w", err)
	}
	defer rows.Close()
	records, err := util.ScanRecords(rows, nil, coerceValue)
	if err != nil {
		return nil, err
	}
	return &internal.RecordsResult{Records: records, TotalRecords: total}, nil
}

func init() {
	internal.RegisterAdapter("postgres", func() internal.Adapter { return &postgresAdapter{} })
}

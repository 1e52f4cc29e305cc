package internal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopmonkeyus/go-common/logger"
)

// AdapterConfig is the configuration for starting an adapter.
type AdapterConfig struct {

	// Context for the adapter's lifetime.
	Context context.Context

	// DSN is the connection string for the SQL backend.
	DSN string

	// SchemaName scopes introspection for dialects with schema namespaces
	// (Postgres). Empty means the dialect default.
	SchemaName string

	// Logger to use for logging.
	Logger logger.Logger
}

// HealthState is the adapter's last observed connection state.
type HealthState string

const (
	HealthUnknown      HealthState = "unknown"
	HealthConnected    HealthState = "connected"
	HealthDisconnected HealthState = "disconnected"
)

// SchemaIntrospector builds a fresh schema from the backend's catalog. A
// catalog query failure fails the whole call; no partial schema is returned.
type SchemaIntrospector interface {
	GetDatabaseSchema(ctx context.Context) (*DatabaseSchema, error)
}

// RecordOperations is the generic CRUD+search surface every dialect adapter
// implements with shared semantics.
type RecordOperations interface {

	// GetRecords runs the list query with search, filters, sorting and
	// pagination and returns one page plus the unpaginated total.
	GetRecords(ctx context.Context, data *TableData, input RecordsInput) (*RecordsResult, error)

	// GetRecord fetches a single record by primary key value(s).
	GetRecord(ctx context.Context, data *TableData, key map[string]any) (Record, error)

	// CreateRecord inserts values and returns the stored record.
	CreateRecord(ctx context.Context, data *TableData, values Record) (Record, error)

	// UpdateRecord updates the record addressed by key.
	UpdateRecord(ctx context.Context, data *TableData, key map[string]any, values Record) error

	// DeleteRecord deletes the record addressed by key.
	DeleteRecord(ctx context.Context, data *TableData, key map[string]any) error

	// ExecuteQuery runs a raw, developer-authored statement with dialect
	// pagination wrapping applied.
	ExecuteQuery(ctx context.Context, query string, countQuery string, page, pageSize int) (*RecordsResult, error)
}

// Adapter is the per-backend implementation of schema introspection and
// record operations.
type Adapter interface {
	SchemaIntrospector
	RecordOperations

	// Dialect is the unique name the adapter is registered under.
	Dialect() string

	// Start connects the adapter's pool. Called once per instance.
	Start(config AdapterConfig) error

	// Stop closes the pool. Called once at the end of the lifecycle.
	Stop() error

	// Test checks connectivity with the given DSN without keeping state.
	Test(ctx context.Context, logger logger.Logger, dsn string) error

	// Health reports the last observed connection state.
	Health() HealthState

	// Configuration returns the connection fields a data source setup
	// form should render for this dialect.
	Configuration() []ConnectionField
}

var adapterRegistry = map[string]func() Adapter{}

// RegisterAdapter registers an adapter factory for a dialect name. Each call
// to NewAdapter constructs a fresh instance so data sources never share
// pools.
func RegisterAdapter(dialect string, factory func() Adapter) {
	adapterRegistry[dialect] = factory
}

// NewAdapter constructs and starts an adapter for the given dialect.
func NewAdapter(ctx context.Context, log logger.Logger, dialect string, dsn string, schemaName string) (Adapter, error) {
	factory := adapterRegistry[dialect]
	if factory == nil {
		return nil, fmt.Errorf("no adapter registered for dialect %s", dialect)
	}
	adapter := factory()
	if err := adapter.Start(AdapterConfig{
		Context:    ctx,
		DSN:        dsn,
		SchemaName: schemaName,
		Logger:     log.WithPrefix(fmt.Sprintf("[%s]", dialect)),
	}); err != nil {
		return nil, err
	}
	return adapter, nil
}

// AdapterDialects returns the registered dialect names.
func AdapterDialects() []string {
	res := make([]string, 0, len(adapterRegistry))
	for dialect := range adapterRegistry {
		res = append(res, dialect)
	}
	return res
}

type ConnectionFieldType string

const (
	ConnectionFieldString  ConnectionFieldType = "string"
	ConnectionFieldNumber  ConnectionFieldType = "number"
	ConnectionFieldBoolean ConnectionFieldType = "boolean"
)

const ConnectionFormatPassword = "password"

// ConnectionField is one field of a dialect's connection form.
type ConnectionField struct {
	Name        string              `json:"name"`
	Type        ConnectionFieldType `json:"type"`
	Format      string              `json:"format,omitempty"`
	Default     *string             `json:"default,omitempty"` // string for display purposes
	Description string              `json:"description"`
	Required    bool                `json:"required"`
}

func RequiredStringField(name, description string) ConnectionField {
	return ConnectionField{
		Name:        name,
		Type:        ConnectionFieldString,
		Description: description,
		Required:    true,
	}
}

func OptionalStringField(name, description string) ConnectionField {
	return ConnectionField{
		Name:        name,
		Type:        ConnectionFieldString,
		Description: description,
	}
}

func OptionalPasswordField(name, description string) ConnectionField {
	return ConnectionField{
		Name:        name,
		Type:        ConnectionFieldString,
		Format:      ConnectionFormatPassword,
		Description: description,
	}
}

func OptionalNumberField(name, description string, defval int) ConnectionField {
	v := fmt.Sprintf("%d", defval)
	return ConnectionField{
		Name:        name,
		Type:        ConnectionFieldNumber,
		Description: description,
		Default:     &v,
	}
}

// NewDatabaseConfiguration returns the standard connection fields for a
// network database dialect.
func NewDatabaseConfiguration(defport int) []ConnectionField {
	fields := []ConnectionField{
		RequiredStringField("Database", "The database name to use"),
		OptionalStringField("Username", "The username to connect with"),
		OptionalPasswordField("Password", "The password to connect with"),
		RequiredStringField("Hostname", "The hostname or ip address of the database"),
	}
	if defport > 0 {
		fields = append(fields, OptionalNumberField("Port", "The port of the database", defport))
	}
	return fields
}

// URLFromDatabaseConfiguration assembles a connection URL from connection
// form values.
func URLFromDatabaseConfiguration(scheme string, defport int, values map[string]any) string {
	hostname, _ := values["Hostname"].(string)
	username, _ := values["Username"].(string)
	password, _ := values["Password"].(string)
	database, _ := values["Database"].(string)
	port := defport
	switch v := values["Port"].(type) {
	case int:
		port = v
	case int64:
		port = int(v)
	case float64:
		port = int(v)
	}
	var u url.URL
	u.Scheme = scheme
	if username != "" {
		u.User = url.UserPassword(username, password)
	}
	if defport > 0 {
		u.Host = fmt.Sprintf("%s:%d", hostname, port)
	} else {
		u.Host = hostname
	}
	u.Path = database
	urlString := u.String()
	unescaped, err := url.QueryUnescape(urlString)
	if err != nil {
		return urlString
	}
	return unescaped
}

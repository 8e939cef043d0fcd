package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

// clickHouseWriter records entries into a ClickHouse database using the
// native protocol.
type clickHouseWriter struct {
	conn      clickhouse.Conn
	lock      sync.Mutex
	batchSize int

	tables     map[string]*table
	entryCount int
}

func clickHouseOptions(dsn string) (*clickhouse.Options, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("datarecording: parsing %q: %w", dsn, err)
	}

	if opts.DialTimeout == 0 {
		opts.DialTimeout = 30 * time.Second
	}

	opts.MaxOpenConns = 5
	opts.MaxIdleConns = 5
	opts.ConnMaxLifetime = time.Hour
	opts.ConnOpenStrategy = clickhouse.ConnOpenInOrder

	return opts, nil
}

func newClickHouseWriter(dsn string, batchSize int) (*clickHouseWriter, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	opts, err := clickHouseOptions(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("datarecording: connecting to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("datarecording: pinging ClickHouse: %w", err)
	}

	w := &clickHouseWriter{
		conn:      conn,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w, nil
}

func clickHouseType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "Int64"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return "UInt64"
	case reflect.Float32, reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("kind %s not supported", kind))
	}
}

func createTableSQL(tableName string, sampleEntry any) string {
	fields := structs.Fields(sampleEntry)

	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, f.Name()+" "+clickHouseType(f.Kind()))
	}

	return "CREATE TABLE IF NOT EXISTS " + tableName + " (\n\t" +
		strings.Join(columns, ",\n\t") +
		"\n) ENGINE = MergeTree()\nORDER BY tuple()"
}

// normalizeValues widens integers and floats to the column types that
// createTableSQL declares.
func normalizeValues(entry any) []any {
	values := structs.Values(entry)

	for i, v := range values {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			values[i] = rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			values[i] = rv.Uint()
		case reflect.Float32:
			values[i] = rv.Float()
		}
	}

	return values
}

func (w *clickHouseWriter) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	err = w.conn.Exec(context.Background(),
		createTableSQL(tableName, sampleEntry))
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
}

func (w *clickHouseWriter) InsertData(tableName string, entry any) {
	w.lock.Lock()

	table, exists := w.tables[tableName]
	if !exists {
		w.lock.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)
	w.entryCount++
	full := w.entryCount >= w.batchSize

	w.lock.Unlock()

	if full {
		w.Flush()
	}
}

func (w *clickHouseWriter) ListTables() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	return tables
}

func (w *clickHouseWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, table := range w.tables {
		if len(table.entries) == 0 {
			continue
		}

		batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
		if err != nil {
			panic(fmt.Errorf("failed to prepare batch for %s: %w",
				tableName, err))
		}

		for _, entry := range table.entries {
			if err := batch.Append(normalizeValues(entry)...); err != nil {
				panic(err)
			}
		}

		if err := batch.Send(); err != nil {
			panic(fmt.Errorf("failed to send batch for %s: %w", tableName, err))
		}

		table.entries = nil
	}

	w.entryCount = 0
}

func (w *clickHouseWriter) Close() error {
	w.Flush()

	return w.conn.Close()
}

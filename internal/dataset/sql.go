package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/san-kum/pengviz/internal/penguin"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	DefaultTable = "penguins"

	// rowOrderColumn orders rows when no explicit order is configured.
	rowOrderColumn = "id"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads the dataset from a database table with the CSV column names.
type SQLSource struct {
	driver  string
	dsn     string
	table   string
	orderBy string
}

// SQL returns a source for driver ("sqlite" or "pgx"). An empty table selects
// DefaultTable. orderBy names the column that defines row order; when empty,
// tables with an id column (as written by WriteSQL) are ordered by id.
func SQL(driver, dsn, table, orderBy string) *SQLSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLSource{driver: driver, dsn: dsn, table: table, orderBy: orderBy}
}

func (s *SQLSource) Name() string { return s.driver + ":" + s.table }

func (s *SQLSource) Load(ctx context.Context) ([]penguin.Record, error) {
	if !identRe.MatchString(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}
	if s.orderBy != "" && !identRe.MatchString(s.orderBy) {
		return nil, fmt.Errorf("%w: order by %q", ErrInvalidTable, s.orderBy)
	}
	db, err := openDB(ctx, s.driver, s.dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	available, err := tableColumns(ctx, db, s.table)
	if err != nil {
		return nil, err
	}
	for _, name := range requiredColumns {
		if !slices.Contains(available, name) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	columns := make([]string, 0, len(penguin.Header))
	for _, name := range penguin.Header {
		if slices.Contains(available, name) {
			columns = append(columns, name)
		}
	}
	orderBy := s.orderBy
	if orderBy == "" && slices.Contains(available, rowOrderColumn) {
		orderBy = rowOrderColumn
	}

	query, err := selectQuery(s.table, columns, orderBy)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []penguin.Record
	for rows.Next() {
		var (
			species, island, sex              sql.NullString
			billLength, billDepth, flip, mass sql.NullFloat64
			year                              sql.NullInt64
		)
		targets := map[string]any{
			"species":           &species,
			"island":            &island,
			"bill_length_mm":    &billLength,
			"bill_depth_mm":     &billDepth,
			"flipper_length_mm": &flip,
			"body_mass_g":       &mass,
			"sex":               &sex,
			"year":              &year,
		}
		dest := make([]any, len(columns))
		for i, name := range columns {
			dest[i] = targets[name]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sp, err := penguin.ParseSpecies(species.String)
		if err != nil {
			return nil, &RowError{Row: len(records) + 1, Wrapped: err}
		}
		records = append(records, penguin.Record{
			Species:       sp,
			Island:        island.String,
			BillLength:    nullFloat(billLength),
			BillDepth:     nullFloat(billDepth),
			FlipperLength: nullFloat(flip),
			BodyMass:      nullFloat(mass),
			Sex:           sex.String,
			Year:          int(year.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

// tableColumns lists the lower-cased column names of table without reading
// any rows.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1 = 0")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}
	for i, n := range names {
		names[i] = strings.ToLower(n)
	}
	return names, nil
}

// WriteSQL creates table if needed and inserts records, in order, inside one
// transaction. The `id` column preserves the original row order.
func WriteSQL(ctx context.Context, driver, dsn, table string, records []penguin.Record) error {
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	db, err := openDB(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY,
		species TEXT NOT NULL,
		island TEXT,
		bill_length_mm DOUBLE PRECISION,
		bill_depth_mm DOUBLE PRECISION,
		flipper_length_mm DOUBLE PRECISION,
		body_mass_g DOUBLE PRECISION,
		sex TEXT,
		year INTEGER
	)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := fmt.Sprintf(`INSERT INTO %s (id, species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex, year) VALUES (%s)`,
		table, placeholders(driver, 9))
	for i, r := range records {
		if _, err := tx.ExecContext(ctx, insert, i+1, string(r.Species), nullString(r.Island),
			floatArg(r.BillLength), floatArg(r.BillDepth), floatArg(r.FlipperLength), floatArg(r.BodyMass),
			nullString(r.Sex), intArg(r.Year)); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	openMu.Lock()
	db, err := sqlOpen(driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func selectQuery(table string, columns []string, orderBy string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	q := "SELECT " + strings.Join(columns, ", ") + " FROM " + table
	if orderBy != "" {
		if !identRe.MatchString(orderBy) {
			return "", fmt.Errorf("%w: order by %q", ErrInvalidTable, orderBy)
		}
		q += " ORDER BY " + orderBy
	}
	return q, nil
}

func placeholders(driver string, n int) string {
	ps := make([]string, n)
	for i := range ps {
		if driver == DriverPostgres {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func floatArg(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func intArg(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

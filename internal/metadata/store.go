// Package metadata filters and subsamples genome sequencing metadata tables.
// Tables are loaded into DuckDB and queried with SQL.
package metadata

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// MinGenomeLength is the shortest consensus sequence kept when the table
// has a "length" column.
const MinGenomeLength = 29000

// Required columns of a metadata table.
var requiredColumns = []string{"isolate", "host_scientific_name", "sample_collection_date"}

// Store manages a DuckDB connection holding one metadata table.
type Store struct {
	db      *sql.DB
	columns []string
	logger  *zap.Logger
}

// Open opens a DuckDB database. Use an empty path for an in-memory
// database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for info messages.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Columns returns the metadata columns in file order.
func (s *Store) Columns() []string {
	return s.columns
}

// HasColumn reports whether the loaded table has the named column.
func (s *Store) HasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Load reads a tab-delimited, optionally gzipped metadata file. All columns
// are loaded as text so that values are written back verbatim.
func (s *Store) Load(path string) error {
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS metadata`); err != nil {
		return fmt.Errorf("drop metadata table: %w", err)
	}

	query := fmt.Sprintf(`CREATE TABLE metadata AS
		SELECT * FROM read_csv('%s', delim='\t', header=true, all_varchar=true)`,
		strings.ReplaceAll(path, "'", "''"))
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("load metadata %s: %w", path, err)
	}

	cols, err := s.loadColumns()
	if err != nil {
		return err
	}
	s.columns = cols
	for _, c := range requiredColumns {
		if !s.HasColumn(c) {
			return &tsv.MissingReferenceDataError{Source: path, Key: c}
		}
	}

	n, err := s.Count()
	if err != nil {
		return err
	}
	s.logger.Info("loaded metadata", zap.String("path", path), zap.Int64("rows", n), zap.Int("columns", len(cols)))
	return nil
}

func (s *Store) loadColumns() ([]string, error) {
	rows, err := s.db.Query(`SELECT column_name FROM information_schema.columns
		WHERE table_name = 'metadata' ORDER BY ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("list metadata columns: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// Count returns the number of loaded rows.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count metadata rows: %w", err)
	}
	return count, nil
}

// Filter selects metadata rows. Rows are always restricted to human hosts
// and, when the table has a length column, to genomes of at least
// MinGenomeLength bases.
type Filter struct {
	Lineage string    // exact lineage, empty for any
	From    time.Time // first collection date, zero for unbounded
	To      time.Time // last collection date, zero for unbounded
}

// Subset is a selection of metadata rows.
type Subset struct {
	Header []string
	Rows   [][]string
}

// Isolates returns the isolate column of the subset.
func (sub *Subset) Isolates() []string {
	idx := -1
	for i, c := range sub.Header {
		if c == "isolate" {
			idx = i
		}
	}
	ids := make([]string, 0, len(sub.Rows))
	if idx < 0 {
		return ids
	}
	for _, row := range sub.Rows {
		ids = append(ids, row[idx])
	}
	return ids
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Select returns the rows matching f in file order.
func (s *Store) Select(f Filter) (*Subset, error) {
	where := []string{`lower(host_scientific_name) = 'homo sapiens'`}
	var args []any
	if s.HasColumn("length") {
		where = append(where, fmt.Sprintf(`TRY_CAST("length" AS DOUBLE) >= %d`, MinGenomeLength))
	}
	if f.Lineage != "" {
		if !s.HasColumn("lineage") {
			return nil, &tsv.MissingReferenceDataError{Source: "metadata", Key: "lineage"}
		}
		where = append(where, `"lineage" = ?`)
		args = append(args, f.Lineage)
	}
	if !f.From.IsZero() {
		where = append(where, `TRY_CAST(sample_collection_date AS DATE) >= CAST(? AS DATE)`)
		args = append(args, f.From.Format(time.DateOnly))
	}
	if !f.To.IsZero() {
		where = append(where, `TRY_CAST(sample_collection_date AS DATE) <= CAST(? AS DATE)`)
		args = append(args, f.To.Format(time.DateOnly))
	}

	cols := make([]string, len(s.columns))
	for i, c := range s.columns {
		cols[i] = quoteIdent(c)
	}
	query := fmt.Sprintf(`SELECT %s FROM metadata WHERE %s ORDER BY rowid`,
		strings.Join(cols, ", "), strings.Join(where, " AND "))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select metadata: %w", err)
	}
	defer rows.Close()

	sub := &Subset{Header: append([]string(nil), s.columns...)}
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = v.String
		}
		sub.Rows = append(sub.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata rows: %w", err)
	}
	return sub, nil
}

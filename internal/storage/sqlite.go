package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrNestedTx is returned when BeginTx is called on a transaction
	ErrNestedTx = errors.New("nested transactions are not supported")
	// ErrInvalidFunction is returned when saving a function whose id, label
	// and receiver fields do not agree
	ErrInvalidFunction = errors.New("invalid function")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) Close() error {
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, ErrNestedTx
}

// Function operations

// saveFunctionWithQuerier inserts a function and its arguments unless the id
// is already stored. Existing rows are never updated.
func (s *SQLiteStorage) saveFunctionWithQuerier(ctx context.Context, q querier, fn *Function) (bool, error) {
	if err := fn.ToTypesFunction().Validate(); err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrInvalidFunction, fn.ID, err)
	}

	query := `
		INSERT INTO functions (id, name, label, return_type, is_method, method_of, description, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		fn.ID, fn.Name, fn.Label, fn.ReturnType, fn.IsMethod, fn.MethodOf,
		fn.Description, fn.Source, now)
	if err != nil {
		return false, fmt.Errorf("failed to save function: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	argQuery := `
		INSERT INTO arguments (function_id, position, name, type, collect, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, arg := range fn.Args {
		if _, err := q.ExecContext(ctx, argQuery,
			fn.ID, i, arg.Name, arg.Type, arg.Collect, arg.Description); err != nil {
			return false, fmt.Errorf("failed to save argument %d of %s: %w", i, fn.ID, err)
		}
	}

	fn.CreatedAt = now
	return true, nil
}

func (s *SQLiteStorage) SaveFunction(ctx context.Context, fn *Function) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted, err := s.saveFunctionWithQuerier(ctx, tx, fn)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit function: %w", err)
	}
	return inserted, nil
}

func (t *sqliteTx) SaveFunction(ctx context.Context, fn *Function) (bool, error) {
	return t.storage.saveFunctionWithQuerier(ctx, t.tx, fn)
}

const functionColumns = `id, name, label, return_type, is_method, method_of, description, source, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFunction(row scanner) (*Function, error) {
	var fn Function
	var returnType, methodOf, description, source sql.NullString
	err := row.Scan(&fn.ID, &fn.Name, &fn.Label, &returnType, &fn.IsMethod,
		&methodOf, &description, &source, &fn.CreatedAt)
	if err != nil {
		return nil, err
	}
	fn.ReturnType = returnType.String
	fn.MethodOf = methodOf.String
	fn.Description = description.String
	fn.Source = source.String
	return &fn, nil
}

// getFunctionWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getFunctionWithQuerier(ctx context.Context, q querier, id string) (*Function, error) {
	query := `SELECT ` + functionColumns + ` FROM functions WHERE id = ?`

	fn, err := scanFunction(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fn.Args, err = s.listArgumentsWithQuerier(ctx, q, fn.ID)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (s *SQLiteStorage) GetFunction(ctx context.Context, id string) (*Function, error) {
	return s.getFunctionWithQuerier(ctx, s.db, id)
}

func (t *sqliteTx) GetFunction(ctx context.Context, id string) (*Function, error) {
	return t.storage.getFunctionWithQuerier(ctx, t.tx, id)
}

// listArgumentsWithQuerier returns the arguments of a function in declaration order
func (s *SQLiteStorage) listArgumentsWithQuerier(ctx context.Context, q querier, functionID string) ([]Argument, error) {
	query := `
		SELECT position, name, type, collect, description
		FROM arguments
		WHERE function_id = ?
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, query, functionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	args := make([]Argument, 0)
	for rows.Next() {
		var arg Argument
		var typ, description sql.NullString
		if err := rows.Scan(&arg.Position, &arg.Name, &typ, &arg.Collect, &description); err != nil {
			return nil, err
		}
		arg.Type = typ.String
		arg.Description = description.String
		args = append(args, arg)
	}
	return args, rows.Err()
}

// listFunctionsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listFunctionsWithQuerier(ctx context.Context, q querier) ([]*Function, error) {
	query := `SELECT ` + functionColumns + ` FROM functions ORDER BY id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	functions := make([]*Function, 0)
	for rows.Next() {
		fn, err := scanFunction(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		functions = append(functions, fn)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Close before issuing argument queries on the single connection
	_ = rows.Close()

	for _, fn := range functions {
		fn.Args, err = s.listArgumentsWithQuerier(ctx, q, fn.ID)
		if err != nil {
			return nil, err
		}
	}
	return functions, nil
}

func (s *SQLiteStorage) ListFunctions(ctx context.Context) ([]*Function, error) {
	return s.listFunctionsWithQuerier(ctx, s.db)
}

func (t *sqliteTx) ListFunctions(ctx context.Context) ([]*Function, error) {
	return t.storage.listFunctionsWithQuerier(ctx, t.tx)
}

func (s *SQLiteStorage) countFunctionsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM functions").Scan(&count)
	return count, err
}

func (s *SQLiteStorage) CountFunctions(ctx context.Context) (int, error) {
	return s.countFunctionsWithQuerier(ctx, s.db)
}

func (t *sqliteTx) CountFunctions(ctx context.Context) (int, error) {
	return t.storage.countFunctionsWithQuerier(ctx, t.tx)
}

// Search operations

// ftsQuery turns free text into an FTS5 prefix query. Each whitespace or
// punctuation separated term becomes a quoted prefix term.
func ftsQuery(query string) string {
	terms := strings.FieldsFunc(query, func(r rune) bool {
		return !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127)
	})
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+term+`"*`)
	}
	return strings.Join(quoted, " ")
}

// searchFunctionsWithQuerier runs a BM25-ranked full-text search over
// labels, names and descriptions
func (s *SQLiteStorage) searchFunctionsWithQuerier(ctx context.Context, q querier, query string, limit int) ([]SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `
		SELECT f.id, bm25(functions_fts) AS score
		FROM functions_fts
		JOIN functions f ON f.rowid = functions_fts.rowid
		WHERE functions_fts MATCH ?
		ORDER BY score, f.id
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, sqlQuery, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search functions: %w", err)
	}

	type hit struct {
		id    string
		score float64
	}
	hits := make([]hit, 0, limit)
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.score); err != nil {
			_ = rows.Close()
			return nil, err
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		fn, err := s.getFunctionWithQuerier(ctx, q, h.id)
		if err != nil {
			return nil, err
		}
		// bm25() is lower-is-better; flip it so callers sort descending
		results = append(results, SearchResult{Function: fn, BM25Score: -h.score})
	}
	return results, nil
}

func (s *SQLiteStorage) SearchFunctions(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return s.searchFunctionsWithQuerier(ctx, s.db, query, limit)
}

func (t *sqliteTx) SearchFunctions(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return t.storage.searchFunctionsWithQuerier(ctx, t.tx, query, limit)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*Status, error) {
	status := &Status{}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM functions").Scan(&status.FunctionsCount); err != nil {
		return nil, fmt.Errorf("failed to count functions: %w", err)
	}
	status.DatabaseAccessible = true

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM functions WHERE is_method = 1").Scan(&status.MethodsCount); err != nil {
		return nil, fmt.Errorf("failed to count methods: %w", err)
	}
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM arguments").Scan(&status.ArgumentsCount); err != nil {
		return nil, fmt.Errorf("failed to count arguments: %w", err)
	}

	version, err := currentSchemaVersion(ctx, q)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version.String()

	var ftsName string
	err = q.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='functions_fts'").Scan(&ftsName)
	status.FTSIndexBuilt = err == nil

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	return s.getStatusWithQuerier(ctx, s.db)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*Status, error) {
	return t.storage.getStatusWithQuerier(ctx, t.tx)
}

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/voucherbill/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the store
// interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.voucherbill/data/invoices.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".voucherbill", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "invoices.db")

	// WAL mode lets readers proceed while a counter update is in flight.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InvoiceStore returns an InvoiceStore interface backed by this store.
func (s *Store) InvoiceStore() driven.InvoiceStore {
	return &invoiceStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Invoice Store ====================

// invoiceStore implements driven.InvoiceStore.
type invoiceStore struct {
	store *Store
}

var _ driven.InvoiceStore = (*invoiceStore)(nil)

// NextSequence increments and returns the invoice counter.
func (s *invoiceStore) NextSequence(ctx context.Context, floor int) (int, error) {
	var value int
	err := s.store.db.QueryRowContext(ctx, `
		UPDATE invoice_counter SET value = MAX(value, ?) + 1
		WHERE id = 1
		RETURNING value
	`, floor).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("incrementing invoice counter: %w", err)
	}
	return value, nil
}

// PeekSequence returns the next counter value without reserving it.
func (s *invoiceStore) PeekSequence(ctx context.Context, floor int) (int, error) {
	var value int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT MAX(value, ?) + 1 FROM invoice_counter WHERE id = 1", floor).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("reading invoice counter: %w", err)
	}
	return value, nil
}

// Save stores or updates an invoice, keyed by number.
func (s *invoiceStore) Save(ctx context.Context, invoice *domain.Invoice) error {
	if invoice == nil || invoice.Number == "" {
		return domain.ErrInvalidInput
	}

	recordJSON, err := json.Marshal(invoice.Record)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}

	issuedAt := invoice.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO invoices (id, number, issued_at, record, total, payment_received, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			id = excluded.id,
			issued_at = excluded.issued_at,
			record = excluded.record,
			total = excluded.total,
			payment_received = excluded.payment_received,
			file_path = excluded.file_path
	`, invoice.ID, invoice.Number, issuedAt.UTC(), string(recordJSON),
		invoice.Total.String(), invoice.PaymentReceived.String(), nullString(invoice.FilePath))
	if err != nil {
		return fmt.Errorf("saving invoice: %w", err)
	}
	return nil
}

// Get retrieves an invoice by number.
func (s *invoiceStore) Get(ctx context.Context, number string) (*domain.Invoice, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, number, issued_at, record, total, payment_received, file_path
		FROM invoices WHERE number = ?
	`, number)

	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns all invoices, most recent first.
func (s *invoiceStore) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, number, issued_at, record, total, payment_received, file_path
		FROM invoices ORDER BY issued_at DESC, number DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}
	return invoices, nil
}

// Delete removes an invoice by number.
func (s *invoiceStore) Delete(ctx context.Context, number string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM invoices WHERE number = ?", number)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helpers ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	var issuedAt sql.NullTime
	var recordJSON, total, paid string
	var filePath sql.NullString

	if err := row.Scan(&inv.ID, &inv.Number, &issuedAt, &recordJSON, &total, &paid, &filePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning invoice: %w", err)
	}

	if err := json.Unmarshal([]byte(recordJSON), &inv.Record); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}

	var err error
	if inv.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parsing total: %w", err)
	}
	if inv.PaymentReceived, err = decimal.NewFromString(paid); err != nil {
		return nil, fmt.Errorf("parsing payment received: %w", err)
	}

	if issuedAt.Valid {
		inv.IssuedAt = issuedAt.Time
	}
	inv.FilePath = filePath.String
	return &inv, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

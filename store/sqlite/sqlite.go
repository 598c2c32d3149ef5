/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements both persistence interfaces (auth.UserStore, contract.Store)
  using SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  auth.UserStore: Account records with unique email addresses
  contract.Store: Contracts plus their side-musician rosters

KEY TABLES:
  users:          One row per registered account
  contracts:      One row per engagement contract, totals included
  side_musicians: Roster rows, owned by a contract (ON DELETE CASCADE)

MONEY COLUMNS:
  Contract totals are stored as decimal strings (TEXT), never REAL.
  Floating-point columns would reintroduce the rounding drift the
  engine's decimal arithmetic exists to avoid.

ROSTER WRITES:
  ReplaceMusicians swaps the whole roster inside one database
  transaction: delete all rows for the contract, insert the new set.
  Readers never observe a half-replaced roster.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/contracts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := contract.NewService(store, calc, logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - contract/store.go: Interface definition and semantics
  - auth/password.go: UserStore interface
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/engine"
)

// Store implements auth.UserStore and contract.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Accounts
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Contracts (one row per engagement, totals denormalized onto the row)
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',

		jurisdiction TEXT NOT NULL,
		scale_key TEXT NOT NULL,

		engagement_date TEXT,
		engagement_type TEXT NOT NULL DEFAULT '',
		band_name TEXT NOT NULL DEFAULT '',
		venue_name TEXT NOT NULL DEFAULT '',
		borough TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		is_recorded BOOLEAN NOT NULL DEFAULT FALSE,

		leader_name TEXT NOT NULL DEFAULT '',
		leader_card_no TEXT NOT NULL DEFAULT '',
		leader_tax_id TEXT NOT NULL DEFAULT '',
		leader_address TEXT NOT NULL DEFAULT '',
		leader_phone TEXT NOT NULL DEFAULT '',
		leader_instrument TEXT NOT NULL DEFAULT '',
		leader_is_playing BOOLEAN NOT NULL DEFAULT TRUE,
		leader_doubling BOOLEAN NOT NULL DEFAULT FALSE,
		leader_num_doubles INTEGER NOT NULL DEFAULT 0,
		leader_cartage BOOLEAN NOT NULL DEFAULT FALSE,
		leader_incorporated BOOLEAN NOT NULL DEFAULT FALSE,

		performance_hours REAL NOT NULL DEFAULT 0,
		has_rehearsal BOOLEAN NOT NULL DEFAULT FALSE,
		rehearsal_hours REAL NOT NULL DEFAULT 0,
		num_musicians INTEGER NOT NULL DEFAULT 1,

		-- Decimal strings, not REAL
		total_gross TEXT NOT NULL DEFAULT '0',
		total_pension TEXT NOT NULL DEFAULT '0',
		total_health TEXT NOT NULL DEFAULT '0',
		total_work_dues TEXT NOT NULL DEFAULT '0',
		participants_with_pay INTEGER NOT NULL DEFAULT 0,

		created_at TEXT NOT NULL,
		last_saved_at TEXT NOT NULL
	);

	-- List screens query by owner, most recently saved first (hot path)
	CREATE INDEX IF NOT EXISTS idx_contracts_user_saved
		ON contracts(user_id, last_saved_at DESC);

	-- Side musicians (roster rows, replaced wholesale on every engagement save)
	CREATE TABLE IF NOT EXISTS side_musicians (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		card_no TEXT NOT NULL DEFAULT '',
		tax_id TEXT NOT NULL DEFAULT '',
		instrument TEXT NOT NULL DEFAULT '',
		doubling BOOLEAN NOT NULL DEFAULT FALSE,
		num_doubles INTEGER NOT NULL DEFAULT 0,
		cartage BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_side_musicians_contract
		ON side_musicians(contract_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USER STORE (auth.UserStore interface)
// =============================================================================

// CreateUser inserts a new account. The email unique constraint maps to
// auth.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash,
		u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves an account by its (normalized) email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?",
		email,
	))
}

// GetUserByID retrieves an account by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?",
		id,
	))
}

func (s *Store) scanUser(row *sql.Row) (*auth.User, error) {
	var u auth.User
	var createdAt string

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// =============================================================================
// CONTRACT STORE (contract.Store interface)
// =============================================================================

const contractColumns = `
	id, user_id, status, jurisdiction, scale_key,
	engagement_date, engagement_type, band_name, venue_name, borough,
	start_time, end_time, is_recorded,
	leader_name, leader_card_no, leader_tax_id, leader_address, leader_phone,
	leader_instrument, leader_is_playing, leader_doubling, leader_num_doubles,
	leader_cartage, leader_incorporated,
	performance_hours, has_rehearsal, rehearsal_hours, num_musicians,
	total_gross, total_pension, total_health, total_work_dues, participants_with_pay,
	created_at, last_saved_at`

// CreateContract inserts a new contract row.
func (s *Store) CreateContract(ctx context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, contractArgs(c)...)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

// GetContract returns one contract by ID, or contract.ErrNotFound.
func (s *Store) GetContract(ctx context.Context, id string) (*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT"+contractColumns+" FROM contracts WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, contract.ErrNotFound
	}
	return scanContract(rows)
}

// ListContracts returns a user's contracts, most recently saved first.
func (s *Store) ListContracts(ctx context.Context, userID string) ([]*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT" + contractColumns + `
		FROM contracts
		WHERE user_id = ?
		ORDER BY last_saved_at DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// UpdateContract overwrites the stored contract.
func (s *Store) UpdateContract(ctx context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE contracts SET
			user_id = ?, status = ?, jurisdiction = ?, scale_key = ?,
			engagement_date = ?, engagement_type = ?, band_name = ?, venue_name = ?,
			borough = ?, start_time = ?, end_time = ?, is_recorded = ?,
			leader_name = ?, leader_card_no = ?, leader_tax_id = ?, leader_address = ?,
			leader_phone = ?, leader_instrument = ?, leader_is_playing = ?,
			leader_doubling = ?, leader_num_doubles = ?, leader_cartage = ?,
			leader_incorporated = ?,
			performance_hours = ?, has_rehearsal = ?, rehearsal_hours = ?, num_musicians = ?,
			total_gross = ?, total_pension = ?, total_health = ?, total_work_dues = ?,
			participants_with_pay = ?,
			created_at = ?, last_saved_at = ?
		WHERE id = ?
	`

	args := contractArgs(c)
	// contractArgs leads with the ID; UPDATE wants it last.
	args = append(args[1:], c.ID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// DeleteContract removes the contract; the roster goes with it via
// ON DELETE CASCADE.
func (s *Store) DeleteContract(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM contracts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// ReplaceMusicians atomically swaps the contract's roster.
func (s *Store) ReplaceMusicians(ctx context.Context, contractID string, musicians []contract.SideMusician) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE id = ?", contractID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return contract.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM side_musicians WHERE contract_id = ?", contractID); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}

	insert := `
		INSERT INTO side_musicians
		(id, contract_id, position, name, card_no, tax_id, instrument, doubling, num_doubles, cartage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, m := range musicians {
		if _, err := tx.ExecContext(ctx, insert,
			m.ID, contractID, m.Position, m.Name, m.CardNo, m.TaxID,
			m.Instrument, m.Doubling, m.NumDoubles, m.Cartage,
		); err != nil {
			return fmt.Errorf("failed to insert musician: %w", err)
		}
	}

	return tx.Commit()
}

// ListMusicians returns the roster in position order.
func (s *Store) ListMusicians(ctx context.Context, contractID string) ([]contract.SideMusician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, contract_id, position, name, card_no, tax_id, instrument, doubling, num_doubles, cartage
		FROM side_musicians
		WHERE contract_id = ?
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query musicians: %w", err)
	}
	defer rows.Close()

	var musicians []contract.SideMusician
	for rows.Next() {
		var m contract.SideMusician
		if err := rows.Scan(
			&m.ID, &m.ContractID, &m.Position, &m.Name, &m.CardNo, &m.TaxID,
			&m.Instrument, &m.Doubling, &m.NumDoubles, &m.Cartage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan musician: %w", err)
		}
		musicians = append(musicians, m)
	}
	return musicians, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"side_musicians", "contracts", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// contractArgs flattens a contract into the column order of contractColumns.
func contractArgs(c *contract.Contract) []any {
	return []any{
		c.ID, c.UserID, string(c.Status), c.Jurisdiction, c.ScaleKey,
		nullString(formatDate(c.EngagementDate)),
		c.EngagementType, c.BandName, c.VenueName, c.Borough,
		c.StartTime, c.EndTime, c.IsRecorded,
		c.LeaderName, c.LeaderCardNo, c.LeaderTaxID, c.LeaderAddress, c.LeaderPhone,
		c.LeaderInstrument, c.LeaderIsPlaying, c.LeaderDoubling, c.LeaderNumDoubles,
		c.LeaderCartage, c.LeaderIncorporated,
		c.PerformanceHours, c.HasRehearsal, c.RehearsalHours, c.NumMusicians,
		c.TotalGross.StringFixed(), c.TotalPension.StringFixed(),
		c.TotalHealth.StringFixed(), c.TotalWorkDues.StringFixed(),
		c.ParticipantsWithPay,
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.LastSavedAt.UTC().Format(time.RFC3339),
	}
}

func scanContract(rows *sql.Rows) (*contract.Contract, error) {
	var (
		c              contract.Contract
		status         string
		engagementDate sql.NullString
		gross          string
		pension        string
		health         string
		workDues       string
		createdAt      string
		lastSavedAt    string
	)

	err := rows.Scan(
		&c.ID, &c.UserID, &status, &c.Jurisdiction, &c.ScaleKey,
		&engagementDate, &c.EngagementType, &c.BandName, &c.VenueName, &c.Borough,
		&c.StartTime, &c.EndTime, &c.IsRecorded,
		&c.LeaderName, &c.LeaderCardNo, &c.LeaderTaxID, &c.LeaderAddress, &c.LeaderPhone,
		&c.LeaderInstrument, &c.LeaderIsPlaying, &c.LeaderDoubling, &c.LeaderNumDoubles,
		&c.LeaderCartage, &c.LeaderIncorporated,
		&c.PerformanceHours, &c.HasRehearsal, &c.RehearsalHours, &c.NumMusicians,
		&gross, &pension, &health, &workDues, &c.ParticipantsWithPay,
		&createdAt, &lastSavedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contract: %w", err)
	}

	c.Status = contract.Status(status)
	if engagementDate.Valid {
		c.EngagementDate, _ = time.Parse(time.DateOnly, engagementDate.String)
	}
	c.TotalGross = engine.MustParseAmount(gross)
	c.TotalPension = engine.MustParseAmount(pension)
	c.TotalHealth = engine.MustParseAmount(health)
	c.TotalWorkDues = engine.MustParseAmount(workDues)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.LastSavedAt, _ = time.Parse(time.RFC3339, lastSavedAt)

	return &c, nil
}

// Helper functions

// formatDate renders a date-valued column; the zero time stores as NULL.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

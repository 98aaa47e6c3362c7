// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finguide/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS diary_entries (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		note TEXT,
		emotion TEXT,
		driver TEXT,
		symbol TEXT,
		trade_side TEXT,
		trade_qty REAL,
		trade_price REAL,
		recheck_pct REAL,
		failure_scenario TEXT,
		feedback TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_diary_timestamp ON diary_entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_diary_symbol ON diary_entries(symbol);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		side TEXT NOT NULL,
		symbol TEXT NOT NULL,
		qty REAL NOT NULL,
		price REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_tx_timestamp ON transactions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_tx_symbol ON transactions(symbol);

	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveDiaryEntry inserts or replaces a diary entry.
func (s *SQLiteStore) SaveDiaryEntry(ctx context.Context, entry *models.DiaryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO diary_entries
		(id, timestamp, note, emotion, driver, symbol, trade_side, trade_qty,
		 trade_price, recheck_pct, failure_scenario, feedback, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		entry.ID, entry.Timestamp, entry.Note, entry.Emotion, entry.Driver,
		entry.Symbol, string(entry.TradeSide),
		nullFloat(entry.TradeQty), nullFloat(entry.TradePrice), nullFloat(entry.RecheckPct),
		entry.FailureScenario, entry.Feedback, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save diary entry: %w", err)
	}
	return nil
}

// UpdateDiaryFeedback sets the AI feedback text on an existing entry.
func (s *SQLiteStore) UpdateDiaryFeedback(ctx context.Context, entryID, feedback string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE diary_entries SET feedback = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, feedback, entryID)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("diary entry %s not found", entryID)
	}
	return nil
}

// GetDiary returns diary entries matching the filter, newest first.
func (s *SQLiteStore) GetDiary(ctx context.Context, filter DiaryFilter) ([]models.DiaryEntry, error) {
	query := `SELECT id, timestamp, note, emotion, driver, symbol, trade_side,
		trade_qty, trade_price, recheck_pct, failure_scenario, feedback,
		created_at, updated_at FROM diary_entries WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, strings.ToUpper(filter.Symbol))
	}
	if filter.Emotion != "" {
		query += " AND emotion = ?"
		args = append(args, filter.Emotion)
	}
	if filter.Driver != "" {
		query += " AND driver = ?"
		args = append(args, filter.Driver)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query diary: %w", err)
	}
	defer rows.Close()

	var entries []models.DiaryEntry
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetDiaryEntry returns a single diary entry by ID.
func (s *SQLiteStore) GetDiaryEntry(ctx context.Context, entryID string) (*models.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, timestamp, note, emotion,
		driver, symbol, trade_side, trade_qty, trade_price, recheck_pct,
		failure_scenario, feedback, created_at, updated_at
		FROM diary_entries WHERE id = ?`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diary entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("diary entry %s not found", entryID)
	}
	entry, err := scanDiaryEntry(rows)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanDiaryEntry(rows *sql.Rows) (models.DiaryEntry, error) {
	var e models.DiaryEntry
	var side sql.NullString
	var qty, price, recheck sql.NullFloat64
	var note, emotion, driver, symbol, failure, feedback sql.NullString

	err := rows.Scan(&e.ID, &e.Timestamp, &note, &emotion, &driver, &symbol,
		&side, &qty, &price, &recheck, &failure, &feedback,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, fmt.Errorf("failed to scan diary entry: %w", err)
	}

	e.Note = note.String
	e.Emotion = emotion.String
	e.Driver = driver.String
	e.Symbol = symbol.String
	e.TradeSide = models.Side(side.String)
	e.FailureScenario = failure.String
	e.Feedback = feedback.String
	if qty.Valid {
		v := qty.Float64
		e.TradeQty = &v
	}
	if price.Valid {
		v := price.Float64
		e.TradePrice = &v
	}
	if recheck.Valid {
		v := recheck.Float64
		e.RecheckPct = &v
	}
	return e, nil
}

// LogTransaction records an executed simulated trade.
func (s *SQLiteStore) LogTransaction(ctx context.Context, tx *models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, timestamp, side, symbol, qty, price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Timestamp, string(tx.Side), strings.ToUpper(tx.Symbol), tx.Qty, tx.Price)
	if err != nil {
		return fmt.Errorf("failed to log transaction: %w", err)
	}
	return nil
}

// GetTransactions returns transactions matching the filter, oldest first.
func (s *SQLiteStore) GetTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT id, timestamp, side, symbol, qty, price FROM transactions WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, strings.ToUpper(filter.Symbol))
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, string(filter.Side))
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY timestamp ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var side string
		if err := rows.Scan(&t.ID, &t.Timestamp, &side, &t.Symbol, &t.Qty, &t.Price); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Side = models.Side(side)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetBlob returns the value stored under key. A missing key returns
// (nil, nil): callers treat absent snapshots as empty.
func (s *SQLiteStore) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return value, nil
}

// PutBlob overwrites the value stored under key (last write wins).
func (s *SQLiteStore) PutBlob(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, data)
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

func nullFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

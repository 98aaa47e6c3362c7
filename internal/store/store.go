// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"finguide/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Diary
	SaveDiaryEntry(ctx context.Context, entry *models.DiaryEntry) error
	UpdateDiaryFeedback(ctx context.Context, entryID, feedback string) error
	GetDiary(ctx context.Context, filter DiaryFilter) ([]models.DiaryEntry, error)
	GetDiaryEntry(ctx context.Context, entryID string) (*models.DiaryEntry, error)

	// Transactions
	LogTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	// Key-value snapshots (quote cache and similar blobs; last write wins)
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, data []byte) error

	// Lifecycle
	Close() error
}

// DiaryFilter represents filters for querying diary entries.
type DiaryFilter struct {
	Symbol    string
	Emotion   string
	Driver    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// TransactionFilter represents filters for querying transactions.
type TransactionFilter struct {
	Symbol    string
	Side      models.Side
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("store: key not found")
	// ErrConcurrencyExhausted is returned by AtomicUpdate when every retry
	// lost the optimistic-lock race. The write was not applied; callers may
	// retry the whole operation.
	ErrConcurrencyExhausted = errors.New("store: concurrent update retries exhausted")
)

// Record is one opaque serialized value. Version starts at 1 on first write
// and increases by one on every successful commit; it is the optimistic lock.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Version   int64  `gorm:"not null"`
	Value     []byte
	UpdatedAt time.Time
}

func (Record) TableName() string { return "records" }

// Store is a key-value blob store with a bounded-retry optimistic update
// primitive. Values are opaque to the store; key naming is the only contract
// shared with callers.
type Store struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
}

// New returns a Store with the default retry policy (5 attempts, linear
// backoff in 25ms steps).
func New(db *gorm.DB) *Store {
	return NewWithRetry(db, 5, 25*time.Millisecond)
}

// NewWithRetry returns a Store with an explicit retry policy. attempts must
// be at least 1.
func NewWithRetry(db *gorm.DB, attempts int, backoff time.Duration) *Store {
	if attempts < 1 {
		attempts = 1
	}
	return &Store{db: db, attempts: attempts, backoff: backoff}
}

// Get returns the current value for key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", key, err)
	}
	return rec.Value, nil
}

// Set writes value unconditionally, creating the record if needed. It does
// not participate in optimistic retries but still bumps the version so that
// in-flight AtomicUpdate callers observe the write as a conflict.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	res := s.db.WithContext(ctx).Exec(
		`INSERT INTO records (key, version, value, updated_at) VALUES (?, 1, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version = version + 1, value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if res.Error != nil {
		return fmt.Errorf("store: write %q: %w", key, res.Error)
	}
	return nil
}

// List returns all values whose key starts with prefix, keyed by full key.
func (s *Store) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("store: list %q: %w", prefix, err)
	}
	out := make(map[string][]byte, len(recs))
	for _, r := range recs {
		out[r.Key] = r.Value
	}
	return out, nil
}

// AtomicUpdate reads the current value for key, applies fn, and commits the
// result only if no other writer got there first. On conflict the whole
// read-apply-commit cycle is repeated against the fresh value, up to the
// configured attempt count with linearly increasing backoff. Two concurrent
// callers therefore never produce a lost update: the loser's fn is re-applied
// to the winner's committed result.
//
// fn receives nil when the key does not exist yet. An error returned by fn
// aborts the update immediately and is passed through unwrapped; only the
// optimistic-lock race is retried, not fn failures or storage I/O errors.
func (s *Store) AtomicUpdate(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * s.backoff)
		}

		var (
			current []byte
			version int64
		)
		var rec Record
		err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
		switch {
		case err == nil:
			current, version = rec.Value, rec.Version
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First write for this key.
		default:
			return nil, fmt.Errorf("store: read %q: %w", key, err)
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}

		if version == 0 {
			res := s.db.WithContext(ctx).Create(&Record{Key: key, Version: 1, Value: next})
			if res.Error == nil {
				return next, nil
			}
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				continue // someone created it first, re-read and re-apply
			}
			return nil, fmt.Errorf("store: create %q: %w", key, res.Error)
		}

		res := s.db.WithContext(ctx).
			Model(&Record{}).
			Where("key = ? AND version = ?", key, version).
			Updates(map[string]any{"version": version + 1, "value": next, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return nil, fmt.Errorf("store: commit %q: %w", key, res.Error)
		}
		if res.RowsAffected == 1 {
			return next, nil
		}
		// Version moved under us, retry against the new snapshot.
	}
	return nil, ErrConcurrencyExhausted
}

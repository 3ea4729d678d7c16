package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/odinbot/internal/logger"
)

// ActiveChat is a row of the active_chats table.
type ActiveChat struct {
	ChatID      int64     `db:"chat_id"`
	ActivatedAt time.Time `db:"activated_at"`
}

// Store is the sqlx implementation of activation.KeySetStore.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore wraps a connected, migrated database.
func NewStore(db *sqlx.DB, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		db:     db,
		logger: log.With("component", "sqlite_store"),
	}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadAll returns every active chat id in ascending order.
func (s *Store) LoadAll(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT chat_id FROM active_chats ORDER BY chat_id`); err != nil {
		s.logger.ErrorContext(ctx, "Error loading active chats", "error", err)
		return nil, fmt.Errorf("failed to load active chats: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// Contains reports whether chatID is active.
func (s *Store) Contains(ctx context.Context, chatID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM active_chats WHERE chat_id = ?)`, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to check chat %d: %w", chatID, err)
	}
	return exists, nil
}

// Add inserts chatID. The primary key makes concurrent inserts of the same id safe.
func (s *Store) Add(ctx context.Context, chatID int64) (bool, error) {
	row := ActiveChat{ChatID: chatID, ActivatedAt: time.Now().UTC()}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO active_chats (chat_id, activated_at) VALUES (:chat_id, :activated_at)
		 ON CONFLICT(chat_id) DO NOTHING`, row)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving active chat", "chat_id", chatID, "error", err)
		return false, fmt.Errorf("failed to save chat %d: %w", chatID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for chat %d: %w", chatID, err)
	}
	return affected == 1, nil
}

// Maintain runs VACUUM on the database file.
func (s *Store) Maintain(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
		}
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}

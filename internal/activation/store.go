// Package activation tracks which chats have opted into automatic token lookups.
//
// The Service re-reads the backing KeySetStore on every call, so an activation
// written by one process is visible to every other process sharing the store.
package activation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/odinbot/internal/logger"
)

// KeySetStore is a durable set of chat identifiers.
// Add must be durable before it returns and must not lose concurrent inserts.
type KeySetStore interface {
	// LoadAll returns every stored chat id. A store that was never written is empty.
	LoadAll(ctx context.Context) ([]int64, error)

	// Contains reports whether chatID is stored.
	Contains(ctx context.Context, chatID int64) (bool, error)

	// Add inserts chatID and reports whether it was newly added.
	Add(ctx context.Context, chatID int64) (bool, error)
}

// Maintainer is implemented by stores that support periodic housekeeping.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Service answers activation queries for the router.
type Service struct {
	store  KeySetStore
	logger *slog.Logger
}

// NewService wraps a KeySetStore.
func NewService(store KeySetStore, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:  store,
		logger: log.With("component", "activation"),
	}
}

// Store returns the backing store.
func (s *Service) Store() KeySetStore {
	return s.store
}

// IsActive reports whether lookups are enabled for chatID.
func (s *Service) IsActive(ctx context.Context, chatID int64) (bool, error) {
	ok, err := s.store.Contains(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to check activation for chat %d: %w", chatID, err)
	}
	return ok, nil
}

// Activate enables lookups for chatID. It returns false if the chat was already active.
func (s *Service) Activate(ctx context.Context, chatID int64) (bool, error) {
	added, err := s.store.Add(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to activate chat %d: %w", chatID, err)
	}
	if added {
		s.logger.InfoContext(ctx, "Chat activated", "chat_id", chatID)
	} else {
		s.logger.DebugContext(ctx, "Chat already active", "chat_id", chatID)
	}
	return added, nil
}

// ActiveChats returns every active chat id.
func (s *Service) ActiveChats(ctx context.Context) ([]int64, error) {
	ids, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active chats: %w", err)
	}
	return ids, nil
}

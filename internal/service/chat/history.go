package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hammall/hamra/backend/internal/model/chat"
	"github.com/hammall/hamra/backend/internal/storage/history"
)

// HistoryRepository saves a tenant's chat log as one JSON document per user.
type HistoryRepository struct {
	store history.Store
}

// NewHistoryRepository stores logs in store.
func NewHistoryRepository(store history.Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("chat_history_%d", userID)
}

// Load returns the saved log, or nil when the tenant has none.
func (r *HistoryRepository) Load(ctx context.Context, userID int64) ([]chat.Message, error) {
	entry, err := r.store.Get(ctx, historyKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if entry == nil || entry.Value == "" {
		return nil, nil
	}

	var messages []chat.Message
	if err := json.Unmarshal([]byte(entry.Value), &messages); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return messages, nil
}

// Save overwrites the tenant's log. Logs are never shared between tenants.
func (r *HistoryRepository) Save(ctx context.Context, userID int64, messages []chat.Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}
	if err := r.store.Set(ctx, historyKey(userID), string(data), false); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	return nil
}

// Clear deletes the tenant's log. A missing log is not an error.
func (r *HistoryRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.store.Delete(ctx, historyKey(userID)); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}

// Ping checks the underlying store.
func (r *HistoryRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

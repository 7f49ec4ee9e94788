package chat

import (
	"time"

	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
)

// Session binds a chat widget instance to the tenant and the shop snapshot
// fetched when it was opened. The snapshot is never refreshed.
type Session struct {
	ID        string          `json:"id"`
	User      *tenant.Profile `json:"user,omitempty"`
	Shops     []shop.Snapshot `json:"shops"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Persistent reports whether the session log is saved to the history store.
func (s Session) Persistent() bool {
	return s.User != nil
}

package shops

import (
	"context"

	"github.com/hammall/hamra/backend/internal/model/shop"
)

// MemorySource serves fixed snapshots keyed by tenant id.
type MemorySource struct {
	shops map[int64][]shop.Snapshot
}

// NewMemorySource copies items. Unknown tenants get an empty list.
func NewMemorySource(items map[int64][]shop.Snapshot) *MemorySource {
	copied := make(map[int64][]shop.Snapshot, len(items))
	for id, list := range items {
		copied[id] = append([]shop.Snapshot(nil), list...)
	}
	return &MemorySource{shops: copied}
}

// TenantShops implements Source.
func (s *MemorySource) TenantShops(_ context.Context, tenantID int64) ([]shop.Snapshot, error) {
	return append([]shop.Snapshot(nil), s.shops[tenantID]...), nil
}

// Ping implements Source.
func (s *MemorySource) Ping(context.Context) error { return nil }

package shops

import (
	"context"
	"errors"

	"github.com/hammall/hamra/backend/internal/model/shop"
)

var ErrTenantNotFound = errors.New("tenant not found")

// Source returns the current rent snapshot of a tenant's shops.
type Source interface {
	TenantShops(ctx context.Context, tenantID int64) ([]shop.Snapshot, error)
	Ping(ctx context.Context) error
}

// SourceType selects a Source implementation.
type SourceType string

const (
	SourceAPI      SourceType = "api"
	SourcePostgres SourceType = "postgres"
	SourceMemory   SourceType = "memory"
)

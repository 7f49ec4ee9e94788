package shops

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hammall/hamra/backend/internal/model/shop"
)

// BalancesViewDDL defines tenant_shop_balances over the rent service's
// shops_shop and shops_payment tables.
//
//go:embed sql/tenant_shop_balances.sql
var BalancesViewDDL string

// DB is the subset of *pgxpool.Pool and *pgx.Conn used here.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PostgresSource reads the tenant_shop_balances view. The view owns the
// balance arithmetic; this source only maps rows.
type PostgresSource struct {
	db DB
}

func NewPostgresSource(db DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// EnsureView creates or replaces tenant_shop_balances. It needs the rent
// service's tables to exist already.
func (s *PostgresSource) EnsureView(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, BalancesViewDDL); err != nil {
		return fmt.Errorf("create tenant_shop_balances view: %w", err)
	}
	return nil
}

const tenantShopsQuery = `
	SELECT id, shop_number, shop_type, floor_number,
	       monthly_rent::float8, total_paid::float8, balance::float8,
	       to_char(next_due_date, 'YYYY-MM-DD'), payment_status
	FROM tenant_shop_balances
	WHERE tenant_id = $1
	ORDER BY shop_number
`

// TenantShops implements Source.
func (s *PostgresSource) TenantShops(ctx context.Context, tenantID int64) ([]shop.Snapshot, error) {
	rows, err := s.db.Query(ctx, tenantShopsQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query tenant shops: %w", err)
	}
	defer rows.Close()

	out := make([]shop.Snapshot, 0, 4)
	for rows.Next() {
		var sn shop.Snapshot
		if err := rows.Scan(
			&sn.ID, &sn.ShopNumber, &sn.ShopType, &sn.FloorNumber,
			&sn.MonthlyRent, &sn.TotalPaid, &sn.Balance,
			&sn.NextDueDate, &sn.PaymentStatus,
		); err != nil {
			return nil, fmt.Errorf("scan tenant shop: %w", err)
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenant shops: %w", err)
	}
	return out, nil
}

// Ping implements Source.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

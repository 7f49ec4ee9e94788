package shops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hammall/hamra/backend/internal/model/shop"
)

const tenantShopsPath = "/api/shops/tenant/%d/shops/"

// APISource reads tenant shops from the rent service REST API.
type APISource struct {
	baseURL string
	client  *http.Client
}

// NewAPISource targets baseURL, e.g. http://localhost:8000.
func NewAPISource(baseURL string, timeout time.Duration) *APISource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type tenantShopsResponse struct {
	Shops []wireShop `json:"shops"`
}

// wireShop tolerates decimals rendered either as JSON numbers or strings.
type wireShop struct {
	ID            int64     `json:"id"`
	ShopNumber    string    `json:"shop_number"`
	ShopType      string    `json:"shop_type"`
	FloorNumber   int       `json:"floor_number"`
	MonthlyRent   flexFloat `json:"monthly_rent"`
	TotalPaid     flexFloat `json:"total_paid"`
	Balance       flexFloat `json:"balance"`
	NextDueDate   *string   `json:"next_due_date"`
	PaymentStatus string    `json:"payment_status"`
}

func (w wireShop) snapshot() shop.Snapshot {
	return shop.Snapshot{
		ID:            w.ID,
		ShopNumber:    w.ShopNumber,
		ShopType:      w.ShopType,
		FloorNumber:   w.FloorNumber,
		MonthlyRent:   float64(w.MonthlyRent),
		TotalPaid:     float64(w.TotalPaid),
		Balance:       float64(w.Balance),
		NextDueDate:   w.NextDueDate,
		PaymentStatus: w.PaymentStatus,
	}
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			*f = 0
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	*f = flexFloat(v)
	return nil
}

// TenantShops implements Source.
func (s *APISource) TenantShops(ctx context.Context, tenantID int64) ([]shop.Snapshot, error) {
	url := s.baseURL + fmt.Sprintf(tenantShopsPath, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build shops request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tenant shops: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTenantNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch tenant shops: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload tenantShopsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tenant shops: %w", err)
	}

	out := make([]shop.Snapshot, 0, len(payload.Shops))
	for _, w := range payload.Shops {
		out = append(out, w.snapshot())
	}
	return out, nil
}

// Ping implements Source. Any response below 500 counts as reachable.
func (s *APISource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("rent service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

package shops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hammall/hamra/backend/internal/model/shop"
)

// DecodeSnapshots reads either a bare JSON array of shops or the rent
// service's {"shops": [...]} envelope.
func DecodeSnapshots(r io.Reader) ([]shop.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var wire []wireShop
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &wire)
	} else {
		var envelope tenantShopsResponse
		err = json.Unmarshal(data, &envelope)
		wire = envelope.Shops
	}
	if err != nil {
		return nil, fmt.Errorf("decode shops: %w", err)
	}

	out := make([]shop.Snapshot, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.snapshot())
	}
	return out, nil
}

// LoadSeedFile builds a MemorySource from a JSON object mapping tenant ids to
// shop lists, e.g. {"7": [{"shop_number": "A12", ...}]}.
func LoadSeedFile(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shop seed: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode shop seed: %w", err)
	}

	items := make(map[int64][]shop.Snapshot, len(raw))
	for key, value := range raw {
		tenantID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("shop seed: invalid tenant id %q", key)
		}
		list, err := DecodeSnapshots(bytes.NewReader(value))
		if err != nil {
			return nil, fmt.Errorf("shop seed tenant %d: %w", tenantID, err)
		}
		items[tenantID] = list
	}
	return NewMemorySource(items), nil
}

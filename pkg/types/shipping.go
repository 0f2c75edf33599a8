package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FreeShippingItem records a cart line that qualified for free shipping and why.
type FreeShippingItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// FreeShippingItems is a slice marshaled as JSONB on the order row.
type FreeShippingItems []FreeShippingItem

// Value serializes the items to JSON.
func (f FreeShippingItems) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f)
}

// Scan decodes JSONB into the item slice.
func (f *FreeShippingItems) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded FreeShippingItems
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*f = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}

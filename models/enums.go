package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type WeighType string

const (
	WeighTypeBuy  WeighType = "BUY"
	WeighTypeSell WeighType = "SELL"
)

// NormalizeWeighType maps source direction codes onto BUY/SELL.
// IN/INBOUND count as BUY, OUT/OUTBOUND as SELL. Anything else falls
// back to BUY so that no row is ever dropped for a bad code.
func NormalizeWeighType(raw string) WeighType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY":
		return WeighTypeBuy
	case "SELL":
		return WeighTypeSell
	case "IN", "INBOUND":
		return WeighTypeBuy
	case "OUT", "OUTBOUND":
		return WeighTypeSell
	default:
		return WeighTypeBuy
	}
}

// StringList is an ordered string set stored as a JSON column.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot convert %T to StringList", value)
	}
}

func (l StringList) Contains(s string) bool {
	for _, m := range l {
		if m == s {
			return true
		}
	}
	return false
}

// StringMap is a free-form extension map stored as a JSON column.
type StringMap map[string]string

// Value implements the driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = StringMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot convert %T to StringMap", value)
	}
}

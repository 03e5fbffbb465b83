package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Stock      int64     `json:"stock"`
	ScanCodes  ScanCodes `json:"scan_codes"`
	CreatedAt  time.Time `json:"created_at"`
	Category   *Category `json:"category,omitempty"`
}

// ScanCodes is the canonical set of normalized barcodes for a product.
// Order of first appearance is kept so matching stays deterministic.
type ScanCodes []string

// NormalizeCode trims, removes every whitespace rune and case-folds a code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.Join(strings.Fields(code), ""))
}

// ParseScanCodes decomposes comma-joined values into a normalized, de-duplicated set.
func ParseScanCodes(raw ...string) ScanCodes {
	codes := ScanCodes{}
	seen := make(map[string]struct{})

	for _, value := range raw {
		for _, piece := range strings.Split(value, ",") {
			code := NormalizeCode(piece)
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}

	return codes
}

// UnmarshalJSON accepts a single string, a number, a list of either, or null.
func (c *ScanCodes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ScanCodes{}
		return nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("invalid scan code list: %w", err)
		}

		raw := make([]string, 0, len(items))
		for _, item := range items {
			value, err := scalarCode(item)
			if err != nil {
				return err
			}
			raw = append(raw, value)
		}

		*c = ParseScanCodes(raw...)
		return nil
	}

	value, err := scalarCode(data)
	if err != nil {
		return err
	}

	*c = ParseScanCodes(value)
	return nil
}

func scalarCode(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("unsupported scan code value: %s", string(data))
}

// Scan reads the comma-joined text column.
func (c *ScanCodes) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = ScanCodes{}
	case string:
		*c = ParseScanCodes(v)
	case []byte:
		*c = ParseScanCodes(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ScanCodes", src)
	}

	return nil
}

func (c ScanCodes) Value() (driver.Value, error) {
	return strings.Join(c, ","), nil
}

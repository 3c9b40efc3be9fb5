// Package normalize maps provider payloads onto the common point series.
// The functions are pure: no I/O, no logging, order preserved exactly as
// received.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// coerceNumber accepts a JSON number, a numeric string, or a non-empty array
// whose first element is one of those.
func coerceNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("missing value")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case '[':
		var xs []json.RawMessage
		if err := json.Unmarshal(raw, &xs); err != nil {
			return 0, err
		}
		if len(xs) == 0 {
			return 0, fmt.Errorf("empty value array")
		}
		return coerceNumber(xs[0])
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, err
		}
		return f, nil
	}
}

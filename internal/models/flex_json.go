package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt unmarshals from a JSON number, a numeric string, an empty string or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flex int: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		// Forms sometimes send "3.0"
		if fv, err := strconv.ParseFloat(s, 64); err == nil && fv == float64(int(fv)) {
			*f = FlexInt(int(fv))
			return nil
		}
		return fmt.Errorf("flex int: %q is not an integer", s)
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex int: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexInt(i)
		return nil
	}
	fv, err := n.Float64()
	if err != nil || fv != float64(int(fv)) {
		return fmt.Errorf("flex int: %s is not an integer", n)
	}
	*f = FlexInt(int(fv))
	return nil
}

func (f FlexInt) Int() int { return int(f) }

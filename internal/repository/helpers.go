package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the
// given layout. NULL, empty and unparseable values all map to nil.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a SQLite value: NULL for
// nil, otherwise the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableIntToValue converts a *int to a SQLite value.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeIntSlice serializes a sorted int slice as JSON for TEXT columns.
// Empty slices store as NULL so absent and empty read back the same.
func encodeIntSlice(vals []int) interface{} {
	if len(vals) == 0 {
		return nil
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

func decodeIntSlice(s sql.NullString) ([]int, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var out []int
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, fmt.Errorf("decoding int list %q: %w", s.String, err)
	}
	return out, nil
}

// encodeDateSlice serializes dates as a JSON array of YYYY-MM-DD strings.
func encodeDateSlice(dates []time.Time) interface{} {
	if len(dates) == 0 {
		return nil
	}
	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = d.Format(dateLayout)
	}
	b, _ := json.Marshal(strs)
	return string(b)
}

func decodeDateSlice(s sql.NullString) ([]time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var strs []string
	if err := json.Unmarshal([]byte(s.String), &strs); err != nil {
		return nil, fmt.Errorf("decoding date list %q: %w", s.String, err)
	}
	out := make([]time.Time, len(strs))
	for i, str := range strs {
		d, err := time.Parse(dateLayout, str)
		if err != nil {
			return nil, fmt.Errorf("decoding date %q: %w", str, err)
		}
		out[i] = d
	}
	return out, nil
}

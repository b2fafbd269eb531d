// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package database

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// ErrInvalidValue is returned when a snapshot field cannot be stored in its column.
var ErrInvalidValue = errors.New("invalid column value")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// bindValue converts a decoded JSON value to the Go type bound for col.
// Missing or null values take the column default.
func bindValue(col snapshot.Column, v any, present bool) (any, error) {
	if !present || v == nil {
		return col.Default, nil
	}

	switch col.Type {
	case snapshot.TypeText:
		return toText(v)
	case snapshot.TypeInt:
		return toInt(v)
	case snapshot.TypeFloat:
		return toFloat(v)
	case snapshot.TypeBool:
		return toBool(v)
	case snapshot.TypeTimestamp:
		return toTimestamp(v)
	case snapshot.TypeJSON:
		if s, ok := v.(string); ok && json.Valid([]byte(s)) {
			return s, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(b), nil
	default:
		return nil, fmt.Errorf("%w: unknown column type %d", ErrInvalidValue, col.Type)
	}
}

func toText(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return nil, fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, v)
	}
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
		}
		return f, nil
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, v)
	}
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, err
	}
	ff := f.(float64)
	if ff != math.Trunc(ff) || math.IsInf(ff, 0) {
		return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
	}
	return int64(ff), nil
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, x)
		}
		return b, nil
	case json.Number:
		switch x.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	}
	return nil, fmt.Errorf("%w: expected boolean, got %v", ErrInvalidValue, v)
}

func toTimestamp(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidValue, x)
	case json.Number:
		// Epoch milliseconds.
		ms, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidValue, x)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return nil, fmt.Errorf("%w: expected timestamp, got %T", ErrInvalidValue, v)
	}
}

// scanValue converts a driver value read from col back to its wire form.
func scanValue(col snapshot.Column, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.UTC().Format(snapshot.RowTimestampLayout)
	case []byte:
		v = string(x)
	case int32:
		return int64(x)
	}

	if col.Type == snapshot.TypeJSON {
		if s, ok := v.(string); ok {
			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()
			var parsed any
			if err := dec.Decode(&parsed); err == nil && !dec.More() {
				return parsed
			}
			return s
		}
	}
	return v
}

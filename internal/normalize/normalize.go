// Package normalize turns stored or submitted line records of any vintage
// into canonical models.Line values.
//
// Every function here is total: malformed input is coerced to a default
// instead of producing an error. Normalizing an already normalized record
// returns it unchanged.
package normalize

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/uuid"
)

// Line converts a raw key/value record into a canonical line.
func Line(raw map[string]any) models.Line {
	l := models.Line{
		ID:       String(raw["id"]),
		Label:    String(raw["label"]),
		Type:     Type(raw["type"]),
		Category: String(raw["category"]),
		UserID:   String(raw["user_id"]),
	}
	if l.ID == "" {
		l.ID = uuid.New()
	}
	if strings.TrimSpace(l.Category) == "" {
		l.Category = models.DefaultCategory(l.Type)
	}
	l.BaseAmount = baseAmount(raw)
	l.Subitems = Subitems(raw["subitems"])
	l.IsVariable = OptionalBool(raw["is_variable"])
	return l
}

// baseAmount resolves the line amount. Records written before subitems
// existed stored it under "amount"; that value is carried over only when
// base_amount is absent or null.
func baseAmount(raw map[string]any) float64 {
	v, ok := raw["base_amount"]
	if !ok || v == nil {
		if legacy, numeric := number(raw["amount"]); numeric {
			return legacy
		}
		return 0
	}
	return Float(v)
}

// Subitems normalizes a raw subitem list. Anything that is not a list
// yields an empty, non-nil slice.
func Subitems(v any) []models.Subitem {
	out := make([]models.Subitem, 0)
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			m, _ := item.(map[string]any)
			out = append(out, Subitem(m))
		}
	case []map[string]any:
		for _, m := range list {
			out = append(out, Subitem(m))
		}
	}
	return out
}

// Subitem converts a raw record into a subitem with an id, a label and a
// finite amount.
func Subitem(raw map[string]any) models.Subitem {
	s := models.Subitem{
		ID:     String(raw["id"]),
		Label:  String(raw["label"]),
		Amount: Float(raw["amount"]),
	}
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return s
}

// Type coerces v to a line type; anything unrecognized is an expense.
func Type(v any) models.LineType {
	if s, ok := v.(string); ok {
		if t := models.LineType(s); t.Valid() {
			return t
		}
	}
	if t, ok := v.(models.LineType); ok && t.Valid() {
		return t
	}
	return models.LineTypeExpense
}

// OptionalBool keeps true and false and maps everything else to unset.
func OptionalBool(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// String renders scalar values as strings. Nil and non-scalar values become "".
func String(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Float coerces v to a finite float, defaulting to 0.
func Float(v any) float64 {
	f, _ := ParseFloat(v)
	return f
}

// ParseFloat coerces v to a finite float. The bool is false when v could not
// be interpreted as a number; nil and the empty string count as zero.
func ParseFloat(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// number reports v as a float only when it is a JSON or Go number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return ParseFloat(n)
	}
	return 0, false
}

// Dataset normalizes every line of a decoded document. stale is true when
// the stored form differs from the normalized one or the document predates
// schema versioning; the returned dataset is then stamped with the current
// schema version.
func Dataset(raw models.RawDataset) (ds models.Dataset, stale bool) {
	ds = models.Dataset{
		Lines: make([]models.Line, 0, len(raw.Lines)),
		Users: make([]models.User, 0, len(raw.Users)),
	}
	version, ok := schemaVersion(raw.Version)
	stale = !ok

	for _, entry := range raw.Users {
		u, ok := User(entry)
		if !ok {
			stale = true
			continue
		}
		if !stale && !reflect.DeepEqual(entry, rendered(u)) {
			stale = true
		}
		ds.Users = append(ds.Users, u)
	}

	seen := make(map[string]struct{}, len(raw.Lines))
	for _, entry := range raw.Lines {
		r, ok := entry.(map[string]any)
		if !ok {
			stale = true
			continue
		}
		l := Line(r)
		if _, dup := seen[l.ID]; dup {
			l.ID = uuid.New()
		}
		seen[l.ID] = struct{}{}
		if !stale && !Equal(r, l) {
			stale = true
		}
		ds.Lines = append(ds.Lines, l)
	}

	switch {
	case stale:
		ds.Version = models.SchemaVersion
	default:
		ds.Version = version
	}
	return ds, stale
}

// schemaVersion reads a stored version. Only a whole JSON number is taken
// as already normalized.
func schemaVersion(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n, err := cast.ToIntE(f)
	if err != nil {
		return 0, false
	}
	return n, true
}

// User converts a stored user record. ok is false when raw is not an object.
func User(raw any) (models.User, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return models.User{}, false
	}
	created, _ := ParseFloat(m["created_at"])
	return models.User{
		ID:           String(m["id"]),
		Username:     String(m["username"]),
		PasswordHash: String(m["password_hash"]),
		CreatedAt:    cast.ToInt64(math.Trunc(created)),
	}, true
}

// Raw renders a line in its stored key/value form.
func Raw(l models.Line) map[string]any {
	return rendered(l)
}

func rendered(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Equal reports whether raw already has exactly the stored form of l.
func Equal(raw map[string]any, l models.Line) bool {
	return reflect.DeepEqual(raw, Raw(l))
}

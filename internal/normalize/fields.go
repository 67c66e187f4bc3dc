package normalize

import "encoding/json"

// Amount is a request field that accepts any JSON value and coerces it to a
// float. Present is set whenever the key appeared in the payload, including
// as null; Valid is false when the value could not be read as a number, in
// which case Value is 0.
type Amount struct {
	Value   float64
	Valid   bool
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on well-formed
// JSON.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	a.Present = true
	a.Value, a.Valid = ParseFloat(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value)
}

// Flag is a request field restricted to true, false or unset. Any non-bool
// JSON value, null included, reads as unset.
type Flag struct {
	Value   *bool
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Present = true
	f.Value = OptionalBool(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// Text is a request field that accepts any scalar JSON value as a string.
// null reads as the empty string.
type Text struct {
	Value   string
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	t.Present = true
	t.Value = String(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

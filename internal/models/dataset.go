package models

import (
	"encoding/json"
	"errors"
)

// SchemaVersion is the dataset layout written by this release.
const SchemaVersion = 1

// Dataset is the whole persisted document in its normalized form.
type Dataset struct {
	Lines   []Line `json:"lines"`
	Users   []User `json:"users"`
	Version int    `json:"version"`
}

// RawDataset is the persisted document as decoded from storage, before any
// record has been normalized. Entries keep whatever shape older releases
// wrote; Version is nil when the document carries none.
type RawDataset struct {
	Lines   []any
	Users   []any
	Version any
}

// UnmarshalJSON accepts any JSON object. A lines or users value that is not
// a list becomes a single nil entry, which normalization drops.
func (r *RawDataset) UnmarshalJSON(b []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("dataset is null")
	}
	r.Lines = entries(doc["lines"])
	r.Users = entries(doc["users"])
	r.Version = doc["version"]
	return nil
}

func entries(v any) []any {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{nil}
	}
}

// EmptyDataset returns a fresh dataset at the current schema version.
func EmptyDataset() Dataset {
	return Dataset{
		Lines:   []Line{},
		Users:   []User{},
		Version: SchemaVersion,
	}
}

// FindUser returns the index of the user with the given id, or -1.
func (d *Dataset) FindUser(id string) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUsername returns the index of the user whose name matches
// case-insensitively, or -1.
func (d *Dataset) FindUsername(name string) int {
	for i := range d.Users {
		if d.Users[i].HasUsername(name) {
			return i
		}
	}
	return -1
}

// FindLine returns the index of the line with the given id owned by
// userID, or -1. Lines of other users are never matched.
func (d *Dataset) FindLine(userID, lineID string) int {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID && d.Lines[i].UserID == userID {
			return i
		}
	}
	return -1
}

// LinesOf returns copies of the lines owned by userID in dataset order.
func (d *Dataset) LinesOf(userID string) []Line {
	out := make([]Line, 0)
	for _, l := range d.Lines {
		if l.UserID == userID {
			out = append(out, l.Clone())
		}
	}
	return out
}

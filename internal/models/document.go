package models

import "time"

// Document is a named JSON blob in the SQL-backed record store. The dataset
// lives in a single row that is replaced as a whole on every write.
type Document struct {
	Name      string    `gorm:"primaryKey;size:255" json:"name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

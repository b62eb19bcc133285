package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reminder is a lawyer task attached to every row of a case.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	DateTime  time.Time `json:"dateTime"`
	Completed bool      `json:"completed"`
}

// Reminders represents a list of reminders stored as JSONB
type Reminders []Reminder

// Value implements driver.Valuer for JSONB
func (r Reminders) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *Reminders) Scan(value interface{}) error {
	*r = make(Reminders, 0)
	b, ok := jsonBytes(value)
	if !ok || len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, r)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CourtServices is the set of external court APIs the handlers proxy.
type CourtServices interface {
	CauseList(ctx context.Context, date string) (map[string]any, error)
	SmartSchedule(ctx context.Context, cnr, selectedDate string) (map[string]any, error)
	SaveNote(ctx context.Context, cnr, note string) (map[string]any, error)
	GetNotes(ctx context.Context, cnr string) (any, error)
}

// stringList accepts either a JSON array of strings or a single
// comma-separated string.
type stringList []string

func (s *stringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	*s = nil
	for _, part := range strings.Split(single, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// looseString accepts a JSON string or number.
type looseString string

func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*l = looseString(n.String())
	return nil
}

var requestDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseRequestDate reads the date formats browsers send from date and
// datetime-local inputs.
func parseRequestDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

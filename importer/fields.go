package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrMalformedValue = errors.New("malformed value")

// dateLayouts are tried in order. Day-month-year comes first.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2-Jan-2006",
	"2 Jan 2006",
}

// IsBlank reports whether v is one of the register's null markers.
func IsBlank(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "N/A", "na", "n/a", "-":
		return true
	}
	return false
}

// ParseDate parses a register date. Null markers yield nil without error;
// anything unparseable yields nil and ErrMalformedValue.
func ParseDate(v string) (*time.Time, error) {
	if IsBlank(v) {
		return nil, nil
	}
	s := strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: date %q", ErrMalformedValue, s)
}

// ParseNumber parses a decimal. Null markers yield 0.
func ParseNumber(v string) (float64, error) {
	if IsBlank(v) {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrMalformedValue, v)
	}
	return f, nil
}

// setter writes one cell into a record.
type setter[T any] func(rec *T, value string) error

func text[T any](field func(*T) *string) setter[T] {
	return func(rec *T, v string) error {
		s := strings.TrimSpace(v)
		if IsBlank(s) {
			s = ""
		}
		*field(rec) = s
		return nil
	}
}

func date[T any](field func(*T) **time.Time) setter[T] {
	return func(rec *T, v string) error {
		t, err := ParseDate(v)
		*field(rec) = t
		return err
	}
}

func number[T any](field func(*T) *float64) setter[T] {
	return func(rec *T, v string) error {
		f, err := ParseNumber(v)
		*field(rec) = f
		return err
	}
}

func optionalNumber[T any](field func(*T) **float64) setter[T] {
	return func(rec *T, v string) error {
		if IsBlank(v) {
			*field(rec) = nil
			return nil
		}
		f, err := ParseNumber(v)
		if err != nil {
			*field(rec) = nil
			return err
		}
		*field(rec) = &f
		return nil
	}
}

func optionalInt[T any](field func(*T) **int) setter[T] {
	return func(rec *T, v string) error {
		if IsBlank(v) {
			*field(rec) = nil
			return nil
		}
		f, err := ParseNumber(v)
		if err != nil {
			*field(rec) = nil
			return err
		}
		n := int(f)
		*field(rec) = &n
		return nil
	}
}

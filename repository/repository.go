package repository

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// columns lists the db-tagged fields of T in declaration order, flattening
// embedded structs and leaving out skip.
func columns[T any](skip ...string) []string {
	var zero T
	var out []string
	for _, f := range reflect.VisibleFields(reflect.TypeOf(zero)) {
		if f.Anonymous {
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" || slices.Contains(skip, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// values returns v's fields in the order columns[T](skip...) names them.
func values[T any](v *T, skip ...string) []any {
	rv := reflect.ValueOf(v).Elem()
	var out []any
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if f.Anonymous {
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" || slices.Contains(skip, tag) {
			continue
		}
		out = append(out, rv.FieldByIndex(f.Index).Interface())
	}
	return out
}

// placeholders renders "$from, $from+1, ..." for n parameters.
func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// likePattern wraps s for a substring ILIKE match with wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// notFound maps pgx.ErrNoRows to ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

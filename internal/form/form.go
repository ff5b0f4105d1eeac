// Package form coerces urlencoded form fields into typed values. Every field
// arrives as text; each getter declares its own failure mode and reports it
// as a FieldError naming the offending field.
package form

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

// FieldError reports a missing or malformed form field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// Values wraps a parsed form for typed access.
type Values struct {
	v url.Values
}

// FromRequest parses the request body as an urlencoded form.
func FromRequest(r *http.Request) (Values, error) {
	if err := r.ParseForm(); err != nil {
		return Values{}, fmt.Errorf("parse form: %w", err)
	}
	return Values{v: r.PostForm}, nil
}

// New wraps already-parsed values; used by tests.
func New(v url.Values) Values {
	return Values{v: v}
}

// String returns a required text field.
func (f Values) String(key string) (string, error) {
	s := f.v.Get(key)
	if s == "" {
		return "", &FieldError{Field: key, Reason: "is required"}
	}
	return s, nil
}

// Optional returns a text field, or "" when absent.
func (f Values) Optional(key string) string {
	return f.v.Get(key)
}

// Int returns a required integer field.
func (f Values) Int(key string) (int, error) {
	s, err := f.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: key, Reason: "must be a whole number"}
	}
	return n, nil
}

// Int64 returns a required 64-bit integer field.
func (f Values) Int64(key string) (int64, error) {
	s, err := f.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: key, Reason: "must be a whole number"}
	}
	return n, nil
}

// Date returns a date field in DateLayout. An absent field yields the zero
// time with no error, so callers can apply their own "not selected yet"
// handling; a present but malformed value is a FieldError.
func (f Values) Date(key string) (time.Time, error) {
	s := f.v.Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &FieldError{Field: key, Reason: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

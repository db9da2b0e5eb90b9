// Utilities for parsing and validating HTTP request data: month keys, dates,
// money fields and the usual method/form guards.

package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"courtsplit/internal/core"
)

// ParseMonthKeyParam reads a "month" value ("YYYY-MM"), defaulting to the
// month containing now when absent.
func ParseMonthKeyParam(values url.Values, now time.Time) (core.MonthKey, error) {
	v := strings.TrimSpace(values.Get("month"))
	if v == "" {
		return core.MonthKeyOf(now), nil
	}
	key := core.MonthKey(v)
	if err := key.Validate(); err != nil {
		return "", err
	}
	return key, nil
}

// ParseDateParam reads a "date" form value in "2006-01-02" form.
func ParseDateParam(values url.Values) (time.Time, error) {
	v := strings.TrimSpace(values.Get("date"))
	return time.ParseInLocation("2006-01-02", v, time.UTC)
}

// ParseMoneyField parses one amount form field; an absent field is zero.
func ParseMoneyField(values url.Values, name string) (core.Money, error) {
	return core.ParseAmount(values.Get(name))
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks the request method and returns an error response
// builder on mismatch, nil when allowed.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience guard for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST allows DELETE and its HTMX form fallback.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on
// failure, nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

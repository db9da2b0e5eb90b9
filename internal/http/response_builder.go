// Package http provides the web UI: HTMX form endpoints and server-rendered
// partials over the session store.
//
// This file implements a small builder for HTMX responses, keeping HX-Trigger
// headers and inline status fragments consistent across handlers.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
	headers    map[string]string
}

func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data interface{}) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerSessionsChanged tells the page to reload the month's session list
// and summary.
func (b *HTMXResponseBuilder) TriggerSessionsChanged(monthKey string) *HTMXResponseBuilder {
	return b.Trigger("sessions:changed", map[string]string{"month": monthKey})
}

// TriggerRosterChanged tells the page to reload the roster panel.
func (b *HTMXResponseBuilder) TriggerRosterChanged() *HTMXResponseBuilder {
	return b.Trigger("roster:changed", struct{}{})
}

// TriggerSettingsSaved tells the page a month's budget was stored.
func (b *HTMXResponseBuilder) TriggerSettingsSaved(monthKey string) *HTMXResponseBuilder {
	return b.Trigger("settings:saved", map[string]string{"month": monthKey})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escapedMsg + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}

// SuccessResponse creates a 200 response with an inline success fragment.
func SuccessResponse(message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		BodyHTML(`<div class="success">` + escapedMsg + `</div>`)
}

// WarningResponse creates a 422 response with an inline warning fragment,
// used when a request is well-formed but blocked by missing state.
func WarningResponse(message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(http.StatusUnprocessableEntity).
		BodyHTML(`<div class="warning">` + escapedMsg + `</div>`)
}

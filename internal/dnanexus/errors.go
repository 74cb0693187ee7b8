package dnanexus

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the API server.
type APIError struct {
	Status    int
	Type      string
	Message   string
	Object    string
	Method    string
	RequestID string
}

func (e *APIError) Error() string {
	prefix := fmt.Sprintf("dnanexus %s/%s failed: %d %s", e.Object, e.Method, e.Status, http.StatusText(e.Status))
	switch {
	case e.Type != "" && e.Message != "":
		prefix += ": " + e.Type + ": " + e.Message
	case e.Type != "":
		prefix += ": " + e.Type
	case e.Message != "":
		prefix += ": " + e.Message
	}
	if e.RequestID != "" {
		prefix += " (request_id=" + e.RequestID + ")"
	}
	return prefix
}

func newAPIError(object, method string, resp *http.Response, body []byte) *APIError {
	out := &APIError{
		Status:    resp.StatusCode,
		Object:    object,
		Method:    method,
		RequestID: resp.Header.Get("X-Request-ID"),
	}

	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Error.Type != "" || payload.Error.Message != "") {
		out.Type = payload.Error.Type
		out.Message = payload.Error.Message
		return out
	}

	msg := strings.TrimSpace(string(body))
	if strings.HasPrefix(msg, "<!DOCTYPE html") || strings.HasPrefix(msg, "<html") {
		return out
	}
	msg = strings.Join(strings.Fields(msg), " ")
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}
	out.Message = msg
	return out
}

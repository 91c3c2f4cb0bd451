package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DecodeJSON decodes the request body into dst. Malformed JSON is an error;
// unknown fields are ignored to keep partial-update payloads forgiving.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// QueryTime parses an optional RFC 3339 or date-only query parameter.
// Returns nil when the parameter is absent.
func QueryTime(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s: expected RFC 3339 timestamp or YYYY-MM-DD", key)
}

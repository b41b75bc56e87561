// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Source is a place in the request where the targeted DNI may appear.
type Source string

const (
	SourceRoute Source = "route"
	SourceQuery Source = "query"
	SourceBody  Source = "body"
)

// DefaultSources is the extraction precedence used when none is configured:
// route path parameter, then query string, then request body.
var DefaultSources = []Source{SourceRoute, SourceQuery, SourceBody}

// ReferenceField is the route parameter, query parameter and body field
// name that carries the DNI.
const ReferenceField = "dni"

// maxBodyBytes bounds how much of a request body is inspected. Bodies
// above it are passed through untouched and yield no reference.
const maxBodyBytes = 1 << 20

// ParseSources converts configured source names into an ordered source
// list. An empty list yields [DefaultSources].
func ParseSources(names []string) ([]Source, error) {
	if len(names) == 0 {
		return append([]Source(nil), DefaultSources...), nil
	}

	sources := make([]Source, 0, len(names))
	seen := make(map[Source]bool, len(names))
	for _, name := range names {
		source := Source(strings.ToLower(strings.TrimSpace(name)))
		switch source {
		case SourceRoute, SourceQuery, SourceBody:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
		}
		if seen[source] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSource, name)
		}
		seen[source] = true
		sources = append(sources, source)
	}

	return sources, nil
}

// ReferenceExtractor finds the DNI a request targets.
type ReferenceExtractor struct {
	sources []Source
	field   string
}

// NewReferenceExtractor returns an extractor that walks sources in order.
func NewReferenceExtractor(sources []Source) *ReferenceExtractor {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &ReferenceExtractor{
		sources: append([]Source(nil), sources...),
		field:   ReferenceField,
	}
}

// Sources returns the extraction precedence.
func (e *ReferenceExtractor) Sources() []Source {
	return append([]Source(nil), e.sources...)
}

// Extract returns the first non-empty DNI found in the configured sources,
// or "" when none carries one.
//
// The route parameter is read with [chi.URLParam], so the extractor must run
// after chi has matched the route. When the body is inspected it is restored
// in place and the next handler reads it unchanged.
func (e *ReferenceExtractor) Extract(r *http.Request) (string, error) {
	for _, source := range e.sources {
		var (
			value string
			err   error
		)

		switch source {
		case SourceRoute:
			value = chi.URLParam(r, e.field)
		case SourceQuery:
			value = r.URL.Query().Get(e.field)
		case SourceBody:
			value, err = e.fromBody(r)
		}
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}

	return "", nil
}

func (e *ReferenceExtractor) fromBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "", nil
	}
	if mediaType != "application/json" && mediaType != "application/x-www-form-urlencoded" {
		return "", nil
	}

	original := r.Body
	buf, err := io.ReadAll(io.LimitReader(original, maxBodyBytes+1))
	r.Body = restoredBody{
		Reader: io.MultiReader(bytes.NewReader(buf), original),
		Closer: original,
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadingBody, err)
	}
	if len(buf) > maxBodyBytes {
		return "", nil
	}

	if mediaType == "application/json" {
		return fieldFromJSON(buf, e.field), nil
	}

	values, err := url.ParseQuery(string(buf))
	if err != nil {
		return "", nil
	}
	return values.Get(e.field), nil
}

// restoredBody replays the inspected prefix of a body followed by the rest
// of the original stream.
type restoredBody struct {
	io.Reader
	io.Closer
}

// fieldFromJSON returns the value of field from a JSON object. Keys match
// case-insensitively with an exact match taking priority; string and number
// values are accepted.
func fieldFromJSON(data []byte, field string) string {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return ""
	}

	raw, ok := object[field]
	if !ok {
		// sorted so that {"DNI":..,"Dni":..} always resolves the same way
		keys := slices.Sorted(maps.Keys(object))
		for _, key := range keys {
			if strings.EqualFold(key, field) {
				raw, ok = object[key], true
				break
			}
		}
	}
	if !ok {
		return ""
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

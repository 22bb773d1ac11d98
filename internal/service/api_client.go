package service

import (
	"context"
	"net/url"
)

// apiClient is the part of *gateway.Client the services use.
type apiClient interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Patch(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// envelope unwraps the external timetable API's {"data": ...} responses.
type envelope[T any] struct {
	Data T `json:"data"`
}

func pathOf(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		if i == 0 {
			escaped[i] = p
			continue
		}
		escaped[i] = url.PathEscape(p)
	}
	out := escaped[0]
	for _, p := range escaped[1:] {
		out += "/" + p
	}
	return out
}

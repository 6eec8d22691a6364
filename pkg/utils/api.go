package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Fetcher issues a GET for a fully built URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*http.Response, error)
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

type API struct {
	fetcher Fetcher
	baseURL string
}

func NewAPI(baseURL string, fetcher Fetcher) *API {
	return &API{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/")}
}

// URL joins path and params onto the base URL.
func (a *API) URL(path string, params url.Values) string {
	u := a.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (a *API) Get(ctx context.Context, path string, params url.Values, v any) error {
	u := a.URL(path, params)
	resp, err := a.fetcher.Fetch(ctx, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, URL: u, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

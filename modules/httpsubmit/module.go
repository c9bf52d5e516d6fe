// Package httpsubmit provides the http_post submit handler. Values are
// POSTed as JSON; a 422 answer carries per-field errors that are applied to
// the form.
package httpsubmit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/future"
	"github.com/specialistvlad/formgrid/internal/registry"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args are the handler's submit_args.
type Args struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

type payload struct {
	Form     string         `json:"form"`
	ID       string         `json:"id"`
	Values   map[string]any `json:"values"`
	Auto     bool           `json:"auto"`
	Previous map[string]any `json:"previous,omitempty"`
}

type fieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func parseArgs(args map[string]any) (*Args, error) {
	raw, ok := args["url"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("http_post requires a 'url' argument")
	}
	if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("http_post 'url' must be an absolute URL, got %q", raw)
	}
	a := &Args{URL: raw, Headers: map[string]string{}, Timeout: defaultTimeout}

	if h, ok := args["headers"]; ok {
		m, ok := h.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("http_post 'headers' must be an object")
		}
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("http_post header %q must be a string", k)
			}
			a.Headers[k] = s
		}
	}
	if t, ok := args["timeout"].(string); ok {
		d, err := time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("http_post 'timeout': %w", err)
		}
		a.Timeout = d
	}
	return a, nil
}

// New builds the handler from submit_args.
func New(args map[string]any) (form.SubmitFunc, error) {
	a, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: a.Timeout}

	return func(ctx context.Context, sub form.Submission) form.SubmitOutcome {
		return form.SubmitLater(future.Go(ctx, func(ctx context.Context) ([]form.FieldResult, error) {
			return post(ctx, client, a, sub)
		}))
	}, nil
}

func post(ctx context.Context, client *http.Client, a *Args, sub form.Submission) ([]form.FieldResult, error) {
	logger := ctxlog.FromContext(ctx).With("handler", "http_post", "form", sub.Form, "submission", sub.ID)

	body, err := json.Marshal(payload{Form: sub.Form, ID: sub.ID, Values: sub.Values, Auto: sub.Auto, Previous: sub.Previous})
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	logger.Debug("Posting submission.", "url", a.URL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		logger.Debug("Submission accepted.", "status", resp.StatusCode)
		return nil, nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return decodeFieldErrors(resp.Body)
	}
	return nil, fmt.Errorf("submission rejected with %s", resp.Status)
}

func decodeFieldErrors(r io.Reader) ([]form.FieldResult, error) {
	var errs []fieldError
	if err := json.NewDecoder(r).Decode(&errs); err != nil {
		return nil, fmt.Errorf("failed to decode field errors: %w", err)
	}
	results := make([]form.FieldResult, 0, len(errs))
	for _, e := range errs {
		path, err := fieldpath.Parse(e.Path)
		if err != nil {
			return nil, fmt.Errorf("field error for %q: %w", e.Path, err)
		}
		results = append(results, form.FieldError(path, e.Message))
	}
	return results, nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSubmitHandler("http_post", New)
}

// Package remotecheck provides the remote_check business rule: an
// asynchronous HTTP lookup, e.g. "is this username still free". The request
// is cancelled whenever the field's value changes before it answers.
package remotecheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/future"
	"github.com/specialistvlad/formgrid/internal/registry"
	"github.com/specialistvlad/formgrid/internal/validator"
)

const (
	defaultTimeout = 5 * time.Second
	defaultMessage = "is not available"
	defaultParam   = "value"
	maxMessageLen  = 200
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args are the rule's biz_args.
type Args struct {
	URL     *url.URL
	Param   string
	Message string
	Timeout time.Duration
}

func parseArgs(args map[string]any) (*Args, error) {
	raw, ok := args["url"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("remote_check requires a 'url' argument")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote_check 'url' must be an absolute URL, got %q", raw)
	}

	a := &Args{URL: u, Param: defaultParam, Message: defaultMessage, Timeout: defaultTimeout}
	if p, ok := args["param"].(string); ok && p != "" {
		a.Param = p
	}
	if m, ok := args["message"].(string); ok && m != "" {
		a.Message = m
	}
	if t, ok := args["timeout"].(string); ok {
		if a.Timeout, err = time.ParseDuration(t); err != nil {
			return nil, fmt.Errorf("remote_check 'timeout': %w", err)
		}
	}
	return a, nil
}

// newHTTPClient returns a client tuned for many short lookups.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// New builds the rule from biz_args.
func New(args map[string]any) (form.BizRule, error) {
	a, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	client := newHTTPClient(a.Timeout)

	return func(ctx context.Context, req form.BizRequest) form.Outcome {
		return form.Later(future.Go(ctx, func(ctx context.Context) (validator.Result, error) {
			return check(ctx, client, a, req)
		}))
	}, nil
}

// check maps 2xx to valid, 409 and 422 to invalid and anything else to an
// error.
func check(ctx context.Context, client *http.Client, a *Args, req form.BizRequest) (validator.Result, error) {
	logger := ctxlog.FromContext(ctx).With("rule", "remote_check", "path", req.Path.String())

	u := *a.URL
	q := u.Query()
	q.Set(a.Param, fmt.Sprint(req.Value))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return validator.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	logger.Debug("Making remote check request.", "url", u.String())

	resp, err := client.Do(httpReq)
	if err != nil {
		return validator.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return req.Call.Valid(), nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxMessageLen))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = a.Message
		}
		logger.Debug("Remote check rejected value.", "status", resp.StatusCode)
		return req.Call.Invalid(msg), nil
	}
	return validator.Result{}, fmt.Errorf("remote check returned %s", resp.Status)
}

// Register registers the rule with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBizRule("remote_check", New)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"apictl/internal/config"
	"apictl/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
)

// requestIDHeader carries a per-invocation correlation ID, useful when
// matching CLI calls against remote API logs.
const requestIDHeader = "X-Request-Id"

// ExecutorOptions configures request execution.
type ExecutorOptions struct {
	// BaseURL is the resolved API base URL. Required.
	BaseURL string
	// APIKey is the credential injected per the auth scheme. Required for
	// execution; discovery never reaches the executor.
	APIKey string
	// Auth selects how the credential is injected.
	Auth config.AuthConfig
	// Timeout bounds the whole request. Zero means the default.
	Timeout time.Duration
	// Quiet suppresses the progress spinner.
	Quiet bool
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Response is the structured result of one executed request. It is
// produced once, handed to the renderer, and never retained.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// StatusLine is the full status line, e.g. "200 OK".
	StatusLine string
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
	// JSON is the best-effort parse of Body; nil when the body is empty or
	// not JSON.
	JSON interface{}
	// Duration is the wall time of the round trip.
	Duration time.Duration
}

// Executor builds and executes exactly one HTTP request per plan.
type Executor struct {
	options ExecutorOptions
	client  *http.Client
}

// NewExecutor creates an executor with the given options.
func NewExecutor(options ExecutorOptions) *Executor {
	if options.Timeout <= 0 {
		options.Timeout = config.DefaultTimeoutSeconds * time.Second
	}
	if options.UserAgent == "" {
		options.UserAgent = "apictl"
	}
	return &Executor{
		options: options,
		client:  &http.Client{Timeout: options.Timeout},
	}
}

// Execute sends the planned request and returns the structured response.
// Transport failures are classified into ExecutionError kinds; a received
// HTTP error status is a normal Response.
func (e *Executor) Execute(ctx context.Context, plan *RequestPlan) (*Response, error) {
	requestURL := e.buildURL(plan)

	var bodyReader io.Reader
	if len(plan.Body) > 0 {
		bodyReader = bytes.NewReader(plan.Body)
	}

	ctx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, plan.Method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	e.applyHeaders(req, plan)

	if !e.options.Quiet {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" %s %s", plan.Method, plan.Path)
		s.Start()
		defer s.Stop()
	}

	logging.Debug("Executor", "%s %s", plan.Method, requestURL)
	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, ClassifyExecutionError(err, requestURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClassifyExecutionError(err, requestURL)
	}

	response := &Response{
		Status:     resp.StatusCode,
		StatusLine: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Headers:    resp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}
	if len(bytes.TrimSpace(body)) > 0 {
		var parsed interface{}
		if json.Unmarshal(body, &parsed) == nil {
			response.JSON = parsed
		}
	}
	return response, nil
}

// buildURL joins the base URL with the resolved path and appends query
// parameters in declared order. url.Values is avoided because its Encode
// sorts keys.
func (e *Executor) buildURL(plan *RequestPlan) string {
	base := strings.TrimRight(e.options.BaseURL, "/")
	requestURL := base + plan.Path
	if len(plan.Query) == 0 {
		return requestURL
	}

	var sb strings.Builder
	for i, kv := range plan.Query {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return requestURL + "?" + sb.String()
}

// applyHeaders sets the standard headers, then the user-declared ones.
// The authentication header always wins: a user header with the same name
// is dropped rather than letting it shadow the credential.
func (e *Executor) applyHeaders(req *http.Request, plan *RequestPlan) {
	req.Header.Set("User-Agent", e.options.UserAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if len(plan.Body) > 0 {
		contentType := plan.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}

	authHeader := e.applyAuth(req)

	for _, kv := range plan.Headers {
		if strings.EqualFold(kv.Key, authHeader) {
			logging.Warn("Executor", "ignoring header %s: reserved for authentication", kv.Key)
			continue
		}
		req.Header.Set(kv.Key, kv.Value)
	}
}

// applyAuth injects the credential and returns the header name it
// occupies.
func (e *Executor) applyAuth(req *http.Request) string {
	switch e.options.Auth.Scheme {
	case config.AuthSchemeBasic:
		req.SetBasicAuth(e.options.APIKey, "")
		return "Authorization"
	case config.AuthSchemeHeader:
		name := e.options.Auth.Header
		if name == "" {
			name = "X-Api-Key"
		}
		req.Header.Set(name, e.options.APIKey)
		return name
	default:
		req.Header.Set("Authorization", "Bearer "+e.options.APIKey)
		return "Authorization"
	}
}

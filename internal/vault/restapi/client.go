// Package restapi implements vault.Gateway over the Obsidian Local REST API plugin.
package restapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aidanlsb/planvault/internal/vault"
)

const (
	// DefaultBaseURL is the plugin's HTTPS endpoint.
	DefaultBaseURL = "https://127.0.0.1:27124"

	markdownContentType = "text/markdown"
	maxErrorBody        = 64 * 1024
)

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string

	// InsecureSkipVerify accepts the plugin's self-signed certificate.
	InsecureSkipVerify bool

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport entirely (tests).
	HTTPClient *http.Client
}

// Client talks to one vault through the REST plugin. Every call is attempted
// exactly once.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

// APIError is a non-2xx response from the plugin.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	ErrorCode  int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps 404 responses to vault.ErrNotFound and everything else to
// vault.ErrRejected.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return vault.ErrNotFound
	}
	return vault.ErrRejected
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // plugin uses a self-signed cert
		}
		httpClient = &http.Client{Transport: transport, Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:    u,
		apiKey:     opts.APIKey,
		httpClient: httpClient,
	}, nil
}

// vaultURL builds /vault/<escaped path>, keeping a trailing '/' for directories.
func (c *Client) vaultURL(p string, dir bool) (string, error) {
	clean, err := vault.CleanPath(p)
	if err != nil {
		return "", err
	}

	var segments []string
	if clean != "" {
		for _, s := range strings.Split(clean, "/") {
			segments = append(segments, url.PathEscape(s))
		}
	}
	escaped := strings.Join(segments, "/")
	if dir && escaped != "" {
		escaped += "/"
	}
	return c.baseURL.String() + "/vault/" + escaped, nil
}

func (c *Client) do(ctx context.Context, method, p string, dir bool, body io.Reader, contentType string) (*http.Response, error) {
	target, err := c.vaultURL(p, dir)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method == http.MethodGet && !dir {
		req.Header.Set("Accept", markdownContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, p, vault.ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp, method, p)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response, method, p string) error {
	apiErr := &APIError{Method: method, Path: p, StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) == 0 {
		return apiErr
	}

	var body struct {
		ErrorCode int    `json:"errorCode"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.ErrorCode = body.ErrorCode
	apiErr.Message = body.Message
	return apiErr
}

type listing struct {
	Files []string `json:"files"`
}

// ListDirectory implements vault.Gateway.
func (c *Client) ListDirectory(ctx context.Context, dir string) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, dir, true, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode listing of %q: %w", dir, err)
	}
	return l.Files, nil
}

// ListFiles implements vault.Gateway by walking directories from the root.
func (c *Client) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	queue := []string{""}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := c.ListDirectory(ctx, dir)
		if err != nil {
			if dir == "" && errors.Is(err, vault.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		for _, entry := range entries {
			// The plugin reports vault-relative paths at the root and
			// folder-relative names below it; normalize both.
			full := entry
			if dir != "" && !strings.HasPrefix(entry, dir+"/") {
				full = vault.Join(dir, entry)
				if vault.IsDirEntry(entry) {
					full += "/"
				}
			}
			if vault.IsDirEntry(full) {
				queue = append(queue, strings.TrimSuffix(full, "/"))
				continue
			}
			files = append(files, full)
		}
	}
	return files, nil
}

// GetFile implements vault.Gateway.
func (c *Client) GetFile(ctx context.Context, p string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, p, false, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

// CreateOrUpdateFile implements vault.Gateway.
func (c *Client) CreateOrUpdateFile(ctx context.Context, p, content string) error {
	resp, err := c.do(ctx, http.MethodPut, p, false, strings.NewReader(content), markdownContentType)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// DeleteFile implements vault.Gateway.
func (c *Client) DeleteFile(ctx context.Context, p string) error {
	resp, err := c.do(ctx, http.MethodDelete, p, false, nil, "")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

var _ vault.Gateway = (*Client)(nil)

// Package rest provides the classifier client for the node classifier's
// HTTP API (/classifier-api/v1).
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ClassifierClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 10.0
)

// Config holds configuration for the classifier client.
type Config struct {
	// BaseURL is the API root, e.g. https://nc.example.com:4433/classifier-api.
	BaseURL string

	// CACertPath, CertPath and KeyPath locate the PEM files used for
	// mutual TLS. When CACertPath is empty the system roots are used; when
	// CertPath is empty no client certificate is presented.
	CACertPath string
	CertPath   string
	KeyPath    string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 10).
	RequestsPerSecond float64

	// HTTPClient overrides the transport. TLS settings are ignored when set.
	HTTPClient *http.Client
}

// Client talks to the classifier over HTTPS.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a classifier client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: classifier base URL is required", domain.ErrInvalidArgument)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	client := cfg.HTTPClient
	if client == nil {
		tlsConfig, err := loadTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		}
	}

	// Group creation answers with a redirect to the new group; the id is
	// read from the Location header rather than followed.
	redirectAware := *client
	redirectAware.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		client:  &redirectAware,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// loadTLSConfig builds the mutual TLS configuration from the puppet
// certificate files.
func loadTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates in %s", domain.ErrParse, cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.CertPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// groupSummary is one entry of the GET /v1/groups listing.
type groupSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupID resolves a group name by listing all groups.
func (c *Client) GroupID(ctx context.Context, name string) (string, error) {
	var groups []groupSummary
	if err := c.do(ctx, http.MethodGet, "/v1/groups", nil, &groups); err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.Name == name {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("group %q: %w", name, domain.ErrNotFound)
}

// Group fetches a group by id.
func (c *Client) Group(ctx context.Context, id string) (*domain.Group, error) {
	var group domain.Group
	if err := c.do(ctx, http.MethodGet, "/v1/groups/"+url.PathEscape(id), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a group. The classifier answers 303 See Other with
// the new group's URL; some versions answer 200/201 with the group body.
func (c *Client) CreateGroup(ctx context.Context, group domain.NewGroup) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "/v1/groups", group)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	if loc := resp.Header.Get("Location"); loc != "" {
		return path.Base(loc), nil
	}

	var created groupSummary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.ID, nil
}

// UpdateGroup submits a group delta.
func (c *Client) UpdateGroup(ctx context.Context, delta domain.GroupDelta) error {
	if delta.ID == "" {
		return fmt.Errorf("%w: group id is required", domain.ErrInvalidArgument)
	}
	return c.do(ctx, http.MethodPost, "/v1/groups/"+url.PathEscape(delta.ID), delta, nil)
}

// do sends a request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.send(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrParse, endpoint, err)
	}
	return nil
}

// send waits for the limiter and performs the request.
func (c *Client) send(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("%s %s", method, endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// checkStatus turns non-success responses into errors. Redirects count as
// success since creation answers with one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))

	var apiErr struct {
		Kind string `json:"kind"`
		Msg  string `json:"msg"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
		msg = apiErr.Kind + ": " + apiErr.Msg
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return fmt.Errorf("classifier error (status %d): %s", resp.StatusCode, msg)
}

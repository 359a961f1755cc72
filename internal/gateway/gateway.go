// Package gateway implements the remote content gateway: the only component
// that talks to the repository's HTTP API. It exposes item reads, container
// listings, paginated search, and partial tag updates; everything above it
// operates on the generic documents it returns.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/plonetools/tagctl/pkg/constants"
	"github.com/plonetools/tagctl/pkg/errors"
)

// Client performs HTTP calls against one repository API root.
type Client struct {
	base string
	http *http.Client
	auth Authenticator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAuth sets the authenticator applied to every request.
func WithAuth(auth Authenticator) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// New creates a gateway client for the given API base URL.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/") + "/",
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth: &NoAuth{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the API root this client is bound to.
func (c *Client) Base() string {
	return c.base
}

// ResolveURL resolves a repository path or absolute URL against the base.
func (c *Client) ResolveURL(pathOrURL string) string {
	if pathOrURL == "" {
		return c.base
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.base + strings.TrimLeft(pathOrURL, "/")
}

// PathFor converts an item's absolute @id URL back into a repository path
// relative to the base. URLs outside the base are returned unchanged.
func (c *Client) PathFor(id string) string {
	trimmed := strings.TrimPrefix(id, strings.TrimRight(c.base, "/"))
	if trimmed == id {
		return id
	}
	return strings.TrimLeft(trimmed, "/")
}

// ReadItem fetches the full document at path.
func (c *Client) ReadItem(ctx context.Context, path string) (Document, error) {
	return c.getJSON(ctx, c.ResolveURL(path), nil)
}

// Children fetches the container at path and returns its direct children.
// Leaf items return an empty slice.
func (c *Client) Children(ctx context.Context, path string) ([]Document, error) {
	doc, err := c.ReadItem(ctx, path)
	if err != nil {
		return nil, err
	}
	return Items(doc), nil
}

// UpdateTags issues a partial update replacing the item's tag field. No
// other fields are sent.
func (c *Client) UpdateTags(ctx context.Context, path string, subjects []string) error {
	if subjects == nil {
		subjects = []string{}
	}
	_, err := c.sendJSON(ctx, http.MethodPatch, c.ResolveURL(path), map[string]any{
		"subjects": subjects,
	})
	return err
}

// Login authenticates against @login and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	doc, err := c.sendJSON(ctx, http.MethodPost, c.ResolveURL("@login"), map[string]any{
		"login":    username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	token := StringField(doc, "token")
	if token == "" {
		return "", errors.NewTransportError(c.ResolveURL("@login"), 0, "login response did not include a token", nil)
	}
	return token, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values) (Document, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapTransport(rawURL, err)
	}
	return c.do(req)
}

// sendJSON performs an authenticated request with a JSON body.
func (c *Client) sendJSON(ctx context.Context, method, rawURL string, body any) (Document, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapTransport(rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapTransport(rawURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do executes the request and maps failures onto the error taxonomy.
func (c *Client) do(req *http.Request) (Document, error) {
	req.Header.Set("Accept", "application/json")
	c.auth.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapTransport(req.URL.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewTransportError(req.URL.String(), resp.StatusCode, resp.Status, nil)
	}

	if resp.ContentLength == 0 || resp.StatusCode == http.StatusNoContent {
		return Document{}, nil
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.NewTransportError(req.URL.String(), 0, "response is not JSON", err)
	}
	return doc, nil
}

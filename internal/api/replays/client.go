// Package replays loads decoded replay documents from disk or over HTTP.
package replays

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cpennington/dicedornot/internal/bb2"
)

const (
	schemaURL = "https://dicedornot.local/replay.schema.json"

	// DefaultMaxSize bounds a fetched replay.
	DefaultMaxSize = 64 << 20
)

//go:embed schema.json
var schemaJSON []byte

var (
	ErrInvalidReplay = errors.New("invalid replay")
	ErrTooLarge      = errors.New("replay too large")
)

type Client struct {
	httpClient *http.Client
	schema     *jsonschema.Schema
	maxSize    int64
}

func NewClient(timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("error adding replay schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("error compiling replay schema: %w", err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		schema:     schema,
		maxSize:    DefaultMaxSize,
	}, nil
}

// IsURL reports whether location is an http or https URL with a host,
// fetched over HTTP rather than read from disk.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Load reads, validates and decodes the replay at location.
func (c *Client) Load(ctx context.Context, location string) (*bb2.Document, error) {
	var (
		raw []byte
		err error
	)
	if IsURL(location) {
		raw, err = c.fetch(ctx, location)
	} else {
		raw, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading replay %s: %w", location, err)
	}

	doc, err := c.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("error loading replay %s: %w", location, err)
	}
	if IsURL(location) {
		doc.Replay.URL = location
	} else {
		doc.Replay.Filename = location
	}
	return doc, nil
}

// Decode validates raw against the replay schema and decodes it.
func (c *Client) Decode(raw []byte) (*bb2.Document, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReplay, err)
	}
	if err := c.schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReplay, err)
	}

	var doc bb2.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error decoding replay: %w", err)
	}
	return &doc, nil
}

func (c *Client) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if resp.ContentLength > c.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if int64(len(body)) > c.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxSize)
	}
	return body, nil
}

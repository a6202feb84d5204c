// Package swuapi fetches card data and card images from the upstream card
// database.
package swuapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("not found")

// Card is a card as served by the upstream API. Art and price properties are
// not kept.
type Card struct {
	Set         string   `json:"Set"`
	Number      string   `json:"Number"`
	Name        string   `json:"Name"`
	Subtitle    string   `json:"Subtitle,omitempty"`
	Type        string   `json:"Type"`
	Aspects     []string `json:"Aspects,omitempty"`
	Traits      []string `json:"Traits,omitempty"`
	Arenas      []string `json:"Arenas,omitempty"`
	Cost        string   `json:"Cost,omitempty"`
	Power       string   `json:"Power,omitempty"`
	HP          string   `json:"HP,omitempty"`
	FrontText   string   `json:"FrontText,omitempty"`
	EpicAction  string   `json:"EpicAction,omitempty"`
	DoubleSided bool     `json:"DoubleSided,omitempty"`
	BackText    string   `json:"BackText,omitempty"`
	Rarity      string   `json:"Rarity"`
	Unique      bool     `json:"Unique,omitempty"`
	Artist      string   `json:"Artist"`
	VariantType string   `json:"VariantType"`
}

// ID is the canonical SET-NUMBER id.
func (c *Card) ID() string {
	return c.Set + "-" + c.Number
}

// NumberInt is the collector number as an integer, 0 when not numeric.
func (c *Card) NumberInt() int {
	n, _ := strconv.Atoi(c.Number)
	return n
}

// Client talks to the card API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for skipped cards and images.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type setResponse struct {
	Data []Card `json:"data"`
}

// SetCards returns every card of a set.
func (c *Client) SetCards(ctx context.Context, setID string) ([]Card, error) {
	var resp setResponse
	if err := c.getJSON(ctx, c.baseURL+"/cards/"+url.PathEscape(setID), &resp); err != nil {
		return nil, fmt.Errorf("fetching set %s: %w", setID, err)
	}
	return resp.Data, nil
}

// Card returns a single card of a set.
func (c *Client) Card(ctx context.Context, setID string, number int) (*Card, error) {
	var card Card
	u := fmt.Sprintf("%s/cards/%s/%d", c.baseURL, url.PathEscape(setID), number)
	if err := c.getJSON(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("fetching card %s-%d: %w", setID, number, err)
	}
	return &card, nil
}

// Download returns the body at rawURL.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w", rawURL, ErrNotFound)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

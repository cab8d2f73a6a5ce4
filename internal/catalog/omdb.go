package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

const (
	// DefaultBaseURL is the OMDb endpoint
	DefaultBaseURL = "https://www.omdbapi.com/"

	// IdentifierPrefix marks an IMDb title id inside a link, e.g. /title/tt0903747/
	IdentifierPrefix = "tt"

	defaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of a failed response is kept as the error message
	maxErrorBody = 4096
)

// ErrNoIdentifier is returned when a link carries no catalog identifier.
// It is always returned before any network call.
var ErrNoIdentifier = errors.New("no catalog identifier found in link")

// NetworkError wraps a transport-level failure
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is returned for any non-2xx status, regardless of body content
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog returned status %d", e.Status)
	}
	return fmt.Sprintf("catalog returned status %d: %s", e.Status, e.Message)
}

// DecodeError is returned when a successful response body cannot be parsed
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse catalog response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// seasonResponse is the OMDb season payload. Unknown fields are ignored and
// a missing Episodes array decodes as empty.
type seasonResponse struct {
	Title        string        `json:"Title"`
	Season       string        `json:"Season"`
	TotalSeasons string        `json:"totalSeasons"`
	Episodes     []omdbEpisode `json:"Episodes"`
	Response     string        `json:"Response"`
	Error        string        `json:"Error,omitempty"`
}

type omdbEpisode struct {
	Title   string `json:"Title"`
	Episode string `json:"Episode"`
	ImdbID  string `json:"imdbID"`
}

// Client handles OMDb season lookups
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "catalog")
	}
}

// NewClient creates a new OMDb client. The api key is passed through opaquely.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractIdentifier returns the first slash-delimited segment of link that
// starts with IdentifierPrefix.
func ExtractIdentifier(link string) (string, error) {
	for _, segment := range strings.Split(link, "/") {
		if strings.HasPrefix(segment, IdentifierPrefix) {
			return segment, nil
		}
	}
	return "", ErrNoIdentifier
}

// FetchEpisodes resolves the show identifier from link and fetches the
// episode list for one season. Exactly one request is made, with no retries.
func (c *Client) FetchEpisodes(ctx context.Context, link string, season int) ([]media.Episode, error) {
	id, err := ExtractIdentifier(link)
	if err != nil {
		return nil, err
	}

	req, err := c.newSeasonRequest(ctx, id, season)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching season", "id", id, "season", season)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var result seasonResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if result.Error != "" {
		c.log.Warn("catalog reported an error", "id", id, "season", season, "error", result.Error)
	}

	episodes := make([]media.Episode, 0, len(result.Episodes))
	for _, ep := range result.Episodes {
		episodes = append(episodes, media.Episode{
			Title:      ep.Title,
			Label:      ep.Episode,
			ExternalID: ep.ImdbID,
		})
	}

	c.log.Debug("season fetched", "id", id, "season", season, "episodes", len(episodes))
	return episodes, nil
}

func (c *Client) newSeasonRequest(ctx context.Context, id string, season int) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}

	q := u.Query()
	q.Set("i", id)
	q.Set("Season", strconv.Itoa(season))
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Package riders is a client for the rider web app's private GraphQL API
// and its receipt document endpoint.
package riders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-claim/internal/resilience"
)

// DefaultBaseURL is the rider web app origin.
const DefaultBaseURL = "https://riders.uber.com"

// Client defines the upstream operations used by the export.
type Client interface {
	// Activities returns one page of past trip summaries for a time window.
	Activities(ctx context.Context, s Session, req ActivitiesRequest) (*ActivitiesPage, error)
	// GetTrip returns the waypoints of a trip.
	GetTrip(ctx context.Context, s Session, tripUUID string) (*TripDetail, error)
	// GetReceipt returns receipt metadata for a trip. An empty timestamp
	// asks for the latest receipt.
	GetReceipt(ctx context.Context, s Session, tripUUID, timestamp string) (*ReceiptInfo, error)
	// DownloadReceipt fetches the receipt PDF. Failures that are worth
	// retrying are returned as *resilience.TransientError.
	DownloadReceipt(ctx context.Context, s Session, tripUUID, timestamp string) ([]byte, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom origin (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a riders client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: "trip-claim/1.0",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) setHeaders(req *http.Request, s Session) {
	req.Header.Set("cookie", s.Cookie)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("origin", c.baseURL)
	req.Header.Set("x-csrf-token", "x")
}

// graphql posts one operation and decodes the data member of the response.
func graphql[T any](ctx context.Context, c *httpClient, s Session, op, query string, vars map[string]any) (*T, error) {
	payload, err := json.Marshal(graphQLRequest{
		OperationName: op,
		Query:         query,
		Variables:     vars,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "riders: %s: marshal request", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrapf(err, "riders: %s: create request", op)
	}
	c.setHeaders(req, s)
	req.Header.Set("content-type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "riders: %s: request failed", op)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "riders: %s: read response body", op)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var envelope graphQLResponse[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, eris.Wrapf(err, "riders: %s: unmarshal response", op)
	}
	if envelope.Data == nil {
		if len(envelope.Errors) > 0 {
			return nil, eris.Errorf("riders: %s: %s", op, envelope.Errors[0].Message)
		}
		return nil, eris.Errorf("riders: %s: response has no data", op)
	}

	return envelope.Data, nil
}

func (c *httpClient) Activities(ctx context.Context, s Session, req ActivitiesRequest) (*ActivitiesPage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 60
	}
	vars := map[string]any{
		"includePast":     true,
		"includeUpcoming": false,
		"limit":           limit,
		"orderTypes":      []string{"RIDES", "TRAVEL"},
		"profileType":     "PERSONAL",
		"startTimeMs":     req.StartTimeMs,
		"endTimeMs":       req.EndTimeMs,
	}
	if req.NextPageToken != "" {
		vars["nextPageToken"] = req.NextPageToken
	}

	data, err := graphql[activitiesData](ctx, c, s, "Activities", activitiesQuery, vars)
	if err != nil {
		return nil, err
	}
	if data.Activities == nil || data.Activities.Past == nil {
		return nil, eris.New("riders: Activities: response has no past activities")
	}

	return data.Activities.Past, nil
}

func (c *httpClient) GetTrip(ctx context.Context, s Session, tripUUID string) (*TripDetail, error) {
	data, err := graphql[getTripData](ctx, c, s, "GetTrip", getTripQuery, map[string]any{
		"tripUUID": tripUUID,
	})
	if err != nil {
		return nil, err
	}
	if data.GetTrip == nil || data.GetTrip.Trip == nil {
		return nil, eris.Errorf("riders: GetTrip: no trip in response for %s", tripUUID)
	}

	return data.GetTrip.Trip, nil
}

func (c *httpClient) GetReceipt(ctx context.Context, s Session, tripUUID, timestamp string) (*ReceiptInfo, error) {
	data, err := graphql[getReceiptData](ctx, c, s, "GetReceipt", getReceiptQuery, map[string]any{
		"tripUUID":  tripUUID,
		"timestamp": timestamp,
	})
	if err != nil {
		return nil, err
	}
	if data.GetReceipt == nil {
		return &ReceiptInfo{}, nil
	}

	return data.GetReceipt, nil
}

// ReceiptURL builds the document download URL for a trip receipt.
func (c *httpClient) ReceiptURL(tripUUID, timestamp string) string {
	q := url.Values{}
	q.Set("contentType", "PDF")
	q.Set("timestamp", timestamp)
	return fmt.Sprintf("%s/trips/%s/receipt?%s", c.baseURL, url.PathEscape(tripUUID), q.Encode())
}

func (c *httpClient) DownloadReceipt(ctx context.Context, s Session, tripUUID, timestamp string) ([]byte, error) {
	reqURL := c.ReceiptURL(tripUUID, timestamp)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "riders: receipt: create request")
	}
	c.setHeaders(req, s)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "riders: receipt: request failed"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "riders: receipt: read body"), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Op: "receipt", StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
		return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
	}

	if !isPDF(resp.Header.Get("Content-Type")) {
		err := eris.Errorf("riders: receipt: content-type %q is not a PDF", resp.Header.Get("Content-Type"))
		return nil, resilience.NewTransientError(err, resp.StatusCode)
	}

	return body, nil
}

func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(contentType), "application/pdf")
	}
	return mediaType == "application/pdf"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

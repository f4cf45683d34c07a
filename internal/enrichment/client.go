package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

// DefaultTimeout is the default HTTP timeout for one classification call.
// Classification downloads and inspects the file, so it is slower than a listing.
const DefaultTimeout = 60 * time.Second

// Client calls the external classification service
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new classification client.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return NewClientWithHTTP(endpoint, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a classification client on top of an existing HTTP client.
func NewClientWithHTTP(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// WithToken returns a client that forwards accessToken so the service can read the file.
func (c *Client) WithToken(accessToken string) *TokenClient {
	return &TokenClient{client: c, token: accessToken}
}

// TokenClient is a Client bound to one access token
type TokenClient struct {
	client *Client
	token  string
}

// Enrich implements catalog.EnrichmentClient
func (c *TokenClient) Enrich(ctx context.Context, fileName, driveID, itemID string) (models.EnrichedMetadata, error) {
	meta, err := c.client.classify(ctx, c.token, classifyRequest{
		DriveID:  driveID,
		ItemID:   itemID,
		FileName: fileName,
	})
	if err != nil {
		return models.EnrichedMetadata{}, &domain.EnrichmentError{
			DriveID:  driveID,
			ItemID:   itemID,
			FileName: fileName,
			Err:      err,
		}
	}
	return meta, nil
}

// classifyRequest is the request body expected by the service
type classifyRequest struct {
	DriveID  string `json:"driveId"`
	ItemID   string `json:"itemId"`
	FileName string `json:"filename"`
}

// classifyResponse accepts numbers or numeric strings for duration;
// every field is optional.
type classifyResponse struct {
	Category       string          `json:"category"`
	TrainingTopic  string          `json:"trainingTopic"`
	InstructorName string          `json:"instructorName"`
	Duration       json.RawMessage `json:"duration"`
}

func (c *Client) classify(ctx context.Context, token string, payload classifyRequest) (models.EnrichedMetadata, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.EnrichedMetadata{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("failed to parse response: %w", err)
	}

	duration, err := parseDuration(parsed.Duration)
	if err != nil {
		return models.EnrichedMetadata{}, fmt.Errorf("failed to parse duration: %w", err)
	}

	return models.EnrichedMetadata{
		Category:       parsed.Category,
		TrainingTopic:  parsed.TrainingTopic,
		InstructorName: parsed.InstructorName,
		Duration:       duration,
	}, nil
}

// parseDuration returns nil for an absent, null or empty duration.
func parseDuration(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return finite(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	fromString, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q", s)
	}
	return finite(fromString)
}

// finite rejects NaN and infinities, which ParseFloat accepts
func finite(v float64) (*float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid duration %v", v)
	}
	return &v, nil
}

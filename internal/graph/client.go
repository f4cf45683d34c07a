package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"
	// DefaultTimeout is the default HTTP timeout for one Graph request
	DefaultTimeout = 30 * time.Second

	// maxPages bounds @odata.nextLink following for a single listing
	maxPages = 1000
)

// Client talks to the Graph drive API. It is safe for concurrent use;
// bind it to a caller's token with Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Graph client with its own HTTP client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Graph client on top of an existing HTTP client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// sameOrigin reports whether link shares the scheme and host of the base URL,
// so the bearer token is never sent elsewhere.
func (c *Client) sameOrigin(link string) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	next, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(next.Scheme, base.Scheme) && strings.EqualFold(next.Host, base.Host)
}

// Session is a Client bound to one access token.
type Session struct {
	client *Client
	token  string
}

// Session binds the client to accessToken
func (c *Client) Session(accessToken string) *Session {
	return &Session{client: c, token: accessToken}
}

// ListChildren returns every child of (driveID, itemID) in the order Graph lists
// them, following pagination. Failures are *domain.RemoteFetchError.
func (s *Session) ListChildren(ctx context.Context, driveID, itemID string) ([]models.TreeNode, error) {
	endpoint := fmt.Sprintf("%s/drives/%s/items/%s/children",
		s.client.baseURL, url.PathEscape(driveID), url.PathEscape(itemID))

	nodes, err := s.listAll(ctx, endpoint)
	if err != nil {
		return nil, remoteFetchError(driveID, itemID, err)
	}
	return nodes, nil
}

// RootChildren lists the root folder of the signed-in user's drive
func (s *Session) RootChildren(ctx context.Context) ([]models.TreeNode, error) {
	nodes, err := s.listAll(ctx, s.client.baseURL+"/me/drive/root/children")
	if err != nil {
		return nil, remoteFetchError("me", "root", err)
	}
	return nodes, nil
}

// Recent lists recently used files, at most limit entries
func (s *Session) Recent(ctx context.Context, limit int) ([]models.TreeNode, error) {
	endpoint := fmt.Sprintf("%s/me/drive/recent?$top=%d", s.client.baseURL, limit)

	var page itemPage
	if err := s.getJSON(ctx, endpoint, &page); err != nil {
		return nil, remoteFetchError("me", "recent", err)
	}

	nodes := toNodes(page.Value)
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

// Me returns the raw /me profile
func (s *Session) Me(ctx context.Context) (json.RawMessage, error) {
	var profile json.RawMessage
	if err := s.getJSON(ctx, s.client.baseURL+"/me", &profile); err != nil {
		return nil, remoteFetchError("me", "", err)
	}
	return profile, nil
}

// listAll follows @odata.nextLink until the listing is complete
func (s *Session) listAll(ctx context.Context, endpoint string) ([]models.TreeNode, error) {
	nodes := make([]models.TreeNode, 0)

	for pages := 0; endpoint != ""; pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("listing exceeded %d pages", maxPages)
		}

		var page itemPage
		if err := s.getJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		nodes = append(nodes, toNodes(page.Value)...)

		if page.NextLink != "" && !s.client.sameOrigin(page.NextLink) {
			return nil, fmt.Errorf("nextLink %q is outside %s", page.NextLink, s.client.baseURL)
		}
		endpoint = page.NextLink
	}

	return nodes, nil
}

// getJSON performs an authenticated GET and decodes a 2xx body into dest
func (s *Session) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// statusError is a non-2xx answer from Graph
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

func remoteFetchError(driveID, itemID string, err error) error {
	fetchErr := &domain.RemoteFetchError{DriveID: driveID, ItemID: itemID, Err: err}
	if se, ok := err.(*statusError); ok {
		fetchErr.Status = se.Status
	}
	return fetchErr
}

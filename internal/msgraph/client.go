package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// MaxSimpleUpload is the largest file the single-request upload accepts.
const MaxSimpleUpload = 4 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	// ErrNotFound is returned when the remote item does not exist.
	ErrNotFound = errors.New("drive item not found")
	// ErrTooLarge is returned for uploads above MaxSimpleUpload.
	ErrTooLarge = errors.New("file too large for simple upload")
)

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Graph API client using the provided token and config.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return NewClientWithHTTP(oauth2.NewClient(ctx, &savingTokenSource{ts: ts}), graphBaseURL)
}

// NewClientWithHTTP creates a client that sends requests through hc to
// baseURL.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = saveToken(tok)
	return tok, nil
}

// DriveItem is the subset of a OneDrive item oro reports.
type DriveItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	WebURL       string    `json:"webUrl"`
	LastModified time.Time `json:"lastModifiedDateTime"`
}

// itemURL addresses a file by its path below the drive root. suffix selects
// a sub-resource such as "/content".
func (c *Client) itemURL(remotePath, suffix string) string {
	var parts []string
	for _, p := range strings.Split(strings.Trim(remotePath, "/"), "/") {
		if p != "" {
			parts = append(parts, url.PathEscape(p))
		}
	}
	u := c.baseURL + "/me/drive/root:/" + strings.Join(parts, "/")
	if suffix == "" {
		return u
	}
	return u + ":" + suffix
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Item returns the metadata of the file at remotePath.
func (c *Client) Item(ctx context.Context, remotePath string) (DriveItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.itemURL(remotePath, ""), nil)
	if err != nil {
		return DriveItem{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return DriveItem{}, err
	}
	var item DriveItem
	if err := json.Unmarshal(body, &item); err != nil {
		return DriveItem{}, fmt.Errorf("decoding graph response: %w", err)
	}
	return item, nil
}

// Download returns the content of the file at remotePath.
func (c *Client) Download(ctx context.Context, remotePath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.itemURL(remotePath, "/content"), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// Upload replaces or creates the file at remotePath.
func (c *Client) Upload(ctx context.Context, remotePath string, data []byte) (DriveItem, error) {
	if len(data) > MaxSimpleUpload {
		return DriveItem{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.itemURL(remotePath, "/content"), bytes.NewReader(data))
	if err != nil {
		return DriveItem{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", xlsxContentType)
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return DriveItem{}, err
	}
	var item DriveItem
	if err := json.Unmarshal(body, &item); err != nil {
		return DriveItem{}, fmt.Errorf("decoding graph response: %w", err)
	}
	return item, nil
}

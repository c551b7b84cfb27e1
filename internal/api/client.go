// internal/api/client.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public AWBW site.
const DefaultBaseURL = "https://awbw.amarriner.com"

// maxPageSize bounds how much of a profile page is read.
const maxPageSize = 4 << 20

// ErrUsernameNotFound is returned when a profile page has no username marker.
var ErrUsernameNotFound = errors.New("username not found on profile page")

// Client handles communication with the AWBW site. The site has no API, so
// lookups scrape the HTML profile pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Username fetches the display name of the account with the given user id.
func (c *Client) Username(ctx context.Context, userID int) (string, error) {
	url := c.baseURL + "/profile.php?users_id=" + strconv.Itoa(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile request returned status %d", resp.StatusCode)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read profile page: %w", err)
	}

	name, ok := scrapeUsername(string(page))
	if !ok {
		return "", fmt.Errorf("%w: user %d", ErrUsernameNotFound, userID)
	}
	return name, nil
}

// scrapeUsername returns the text of the first <i> element after "Username:".
func scrapeUsername(page string) (string, bool) {
	_, rest, ok := strings.Cut(page, "Username:")
	if !ok {
		return "", false
	}
	_, rest, ok = strings.Cut(rest, "<i>")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, "</i>")
	if !ok {
		return "", false
	}
	return name, true
}

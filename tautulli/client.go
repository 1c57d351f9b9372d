package tautulli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client wraps the Tautulli API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Tautulli client
func NewClient(baseURL, apiKey string, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tautulli URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("tautulli API key is required")
	}

	// Ensure base URL ends without slash
	baseURL = strings.TrimRight(baseURL, "/")

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	// Test the connection
	if err := client.TestConnection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Tautulli: %w", err)
	}

	return client, nil
}

// doRequest performs a GET against /api/v2 for the given command
func (c *Client) doRequest(ctx context.Context, cmd string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	params.Set("cmd", cmd)

	requestURL := fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())
	c.logger.Debug().Str("cmd", cmd).Msg("Making Tautulli API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// apiError builds the error for a non-success API result
func apiError(result, message string) error {
	if message != "" {
		return fmt.Errorf("%w: %s", ErrAPIFailure, message)
	}
	return fmt.Errorf("%w: result %q", ErrAPIFailure, result)
}

// TestConnection tests the connection to Tautulli
func (c *Client) TestConnection(ctx context.Context) error {
	body, err := c.doRequest(ctx, "get_server_info", nil)
	if err != nil {
		return err
	}

	var info serverInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if info.Response.Result != "success" {
		return apiError(info.Response.Result, info.Response.Message)
	}

	return nil
}

// GetRecentlyAdded retrieves one page of the recently-added listing for
// a library section. Items are returned in descending order of added_at.
func (c *Client) GetRecentlyAdded(ctx context.Context, sectionID, start, count int) ([]RecentItem, error) {
	params := url.Values{
		"section_id": {strconv.Itoa(sectionID)},
		"start":      {strconv.Itoa(start)},
		"count":      {strconv.Itoa(count)},
	}

	body, err := c.doRequest(ctx, "get_recently_added", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get recently added: %w", err)
	}

	var recent recentlyAddedResponse
	if err := json.Unmarshal(body, &recent); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if recent.Response.Result != "success" {
		return nil, apiError(recent.Response.Result, recent.Response.Message)
	}

	return recent.Response.Data.RecentlyAdded, nil
}

// GetMetadata retrieves the full metadata record for a media item.
func (c *Client) GetMetadata(ctx context.Context, ratingKey string) (*Metadata, error) {
	params := url.Values{
		"rating_key": {ratingKey},
		"media_info": {"true"},
	}

	body, err := c.doRequest(ctx, "get_metadata", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var meta metadataResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if meta.Response.Result != "success" {
		return nil, apiError(meta.Response.Result, meta.Response.Message)
	}

	return &meta.Response.Data.Metadata, nil
}

// GetLibrarySections retrieves the libraries table.
func (c *Client) GetLibrarySections(ctx context.Context) ([]LibrarySection, error) {
	body, err := c.doRequest(ctx, "get_libraries_table", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get libraries table: %w", err)
	}

	var libraries librariesResponse
	if err := json.Unmarshal(body, &libraries); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if libraries.Response.Result != "success" {
		return nil, apiError(libraries.Response.Result, libraries.Response.Message)
	}

	return libraries.Response.Data.Data, nil
}

// FindSections resolves a library name to its section IDs. Zero matches
// is a valid result, not an error.
func (c *Client) FindSections(ctx context.Context, libraryName string) ([]int, error) {
	sections, err := c.GetLibrarySections(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, section := range sections {
		if section.SectionName == libraryName {
			ids = append(ids, section.SectionID)
		}
	}

	return ids, nil
}

// RefreshLibraryMediaInfo triggers a media-info refresh for a section.
// The response payload is not needed and is discarded.
func (c *Client) RefreshLibraryMediaInfo(ctx context.Context, sectionID int) error {
	params := url.Values{
		"section_id": {strconv.Itoa(sectionID)},
		"refresh":    {"true"},
	}

	if _, err := c.doRequest(ctx, "get_library_media_info", params); err != nil {
		return fmt.Errorf("failed to refresh library media info: %w", err)
	}

	return nil
}

// GetUsers retrieves the user list.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	body, err := c.doRequest(ctx, "get_users", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var users usersResponse
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if users.Response.Result != "success" {
		return nil, apiError(users.Response.Result, users.Response.Message)
	}

	return users.Response.Data, nil
}

// ImageProxyURL builds the image-proxy URL for an artwork reference.
// Pure URL construction, no request is made.
func (c *Client) ImageProxyURL(imageRef string) string {
	params := url.Values{
		"apikey": {c.apiKey},
		"cmd":    {"pms_image_proxy"},
		"img":    {imageRef},
	}
	return fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())
}

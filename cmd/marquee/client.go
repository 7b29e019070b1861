package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/marquee/internal/auth"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/recommend"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/tmdb"
)

// Client wraps HTTP calls to the marquee server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new marquee API client. token may be empty for
// endpoints that need no login.
func NewClient(serverURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 90 * time.Second, // recommendations wait on the LLM
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d: %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	}
	return apiErr
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body, result any) error {
	return c.do(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string, result any) error {
	return c.do(http.MethodDelete, path, nil, result)
}

// API response types (mirror server types)

type StatusResponse struct {
	Status          string            `json:"status"`
	Version         string            `json:"version"`
	TMDB            tmdb.ConfigStatus `json:"tmdb"`
	TMDBCheck       *tmdb.ConfigCheck `json:"tmdb_check,omitempty"`
	TMDBError       string            `json:"tmdb_error,omitempty"`
	Recommendations bool              `json:"recommendations"`
	ActiveLoads     int               `json:"active_loads"`
}

type SessionResponse struct {
	User      auth.User `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LikesResponse struct {
	Items        []likes.Movie `json:"items"`
	Total        int           `json:"total"`
	CanRecommend bool          `json:"can_recommend"`
}

type LoadingResponse struct {
	Active     bool               `json:"active"`
	Count      int                `json:"count"`
	Current    *loader.Operation  `json:"current,omitempty"`
	Operations []loader.Operation `json:"operations"`
}

type CacheInfo struct {
	respcache.Stats
	TTLSeconds float64 `json:"ttl_seconds"`
}

type CacheResponse struct {
	Caches map[string]CacheInfo `json:"caches"`
}

type ClearCacheResponse struct {
	Cleared map[string]int `json:"cleared"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

type EventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

// Status fetches server status. check also tests TMDB credentials live.
func (c *Client) Status(check bool) (*StatusResponse, error) {
	path := "/api/v1/status"
	if check {
		path += "?check=true"
	}
	var resp StatusResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Movies fetches a movie listing: popular, top-rated or trending.
func (c *Client) Movies(list string, page int, window string) (*tmdb.Page[tmdb.Movie], error) {
	return listing[tmdb.Movie](c, "/api/v1/movies/"+list, page, window)
}

// TV fetches a TV listing: popular, top-rated or trending.
func (c *Client) TV(list string, page int, window string) (*tmdb.Page[tmdb.Series], error) {
	return listing[tmdb.Series](c, "/api/v1/tv/"+list, page, window)
}

func listing[T any](c *Client, path string, page int, window string) (*tmdb.Page[T], error) {
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if window != "" {
		params.Set("window", window)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp tmdb.Page[T]
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchMovies searches movies by title.
func (c *Client) SearchMovies(query string, page int) (*tmdb.Page[tmdb.Movie], error) {
	var resp tmdb.Page[tmdb.Movie]
	path := fmt.Sprintf("/api/v1/movies/search?q=%s&page=%d", url.QueryEscape(query), max(page, 1))
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchTV searches TV series by name.
func (c *Client) SearchTV(query string, page int) (*tmdb.Page[tmdb.Series], error) {
	var resp tmdb.Page[tmdb.Series]
	path := fmt.Sprintf("/api/v1/tv/search?q=%s&page=%d", url.QueryEscape(query), max(page, 1))
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Movie fetches details for one movie.
func (c *Client) Movie(id int64) (*tmdb.MovieDetails, error) {
	var resp tmdb.MovieDetails
	if err := c.get("/api/v1/movies/"+strconv.FormatInt(id, 10), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LookupMovie resolves a free-text title like "Heat 1995".
func (c *Client) LookupMovie(title string) (*tmdb.Movie, error) {
	var resp tmdb.Movie
	if err := c.get("/api/v1/movies/lookup?title="+url.QueryEscape(title), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Series fetches details for one TV series.
func (c *Client) Series(id int64) (*tmdb.SeriesDetails, error) {
	var resp tmdb.SeriesDetails
	if err := c.get("/api/v1/tv/"+strconv.FormatInt(id, 10), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(email, password, displayName string) (*SessionResponse, error) {
	var resp SessionResponse
	body := map[string]string{"email": email, "password": password, "display_name": displayName}
	if err := c.post("/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login opens a session.
func (c *Client) Login(email, password string) (*SessionResponse, error) {
	var resp SessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post("/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the current session.
func (c *Client) Logout() error {
	return c.post("/api/v1/auth/logout", nil, nil)
}

// Me returns the logged-in account.
func (c *Client) Me() (*auth.User, error) {
	var resp auth.User
	if err := c.get("/api/v1/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deactivate disables the logged-in account and ends all of its sessions.
func (c *Client) Deactivate() error {
	return c.delete("/api/v1/auth/me", nil)
}

// Likes lists liked movies in the order they were liked.
func (c *Client) Likes() (*LikesResponse, error) {
	var resp LikesResponse
	if err := c.get("/api/v1/likes", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Like adds a movie to the liked list. The server fills in metadata.
func (c *Client) Like(id int64) (*likes.Movie, error) {
	var resp likes.Movie
	if err := c.put("/api/v1/likes/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unlike removes a movie from the liked list.
func (c *Client) Unlike(id int64) error {
	return c.delete("/api/v1/likes/"+strconv.FormatInt(id, 10), nil)
}

// ToggleLike likes a movie that is not liked and unlikes one that is. It
// reports whether the movie is liked afterwards.
func (c *Client) ToggleLike(id int64) (bool, error) {
	var resp struct {
		Liked bool `json:"liked"`
	}
	if err := c.post("/api/v1/likes/"+strconv.FormatInt(id, 10)+"/toggle", nil, &resp); err != nil {
		return false, err
	}
	return resp.Liked, nil
}

// ClearLikes removes every like and returns how many were removed.
func (c *Client) ClearLikes() (int, error) {
	var resp struct {
		Removed int `json:"removed"`
	}
	if err := c.delete("/api/v1/likes", &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

// Recommendations asks for recommendations based on the liked list.
func (c *Client) Recommendations() (*recommend.Response, error) {
	var resp recommend.Response
	if err := c.get("/api/v1/recommendations", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Loading reports in-flight server operations.
func (c *Client) Loading() (*LoadingResponse, error) {
	var resp LoadingResponse
	if err := c.get("/api/v1/loading", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cache reports response cache statistics.
func (c *Client) Cache() (*CacheResponse, error) {
	var resp CacheResponse
	if err := c.get("/api/v1/cache", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearCache empties one named cache, or all when name is empty.
func (c *Client) ClearCache(name string) (*ClearCacheResponse, error) {
	path := "/api/v1/cache"
	if name != "" {
		path += "?name=" + url.QueryEscape(name)
	}
	var resp ClearCacheResponse
	if err := c.delete(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events lists recent persisted events.
func (c *Client) Events(limit int) (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/pkg/title"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org"
	defaultCacheTTL = 15 * time.Minute
	defaultTimeout  = 10 * time.Second
)

// Client is a TMDB API client. Every catalog read goes through a response
// cache; every network round trip is registered with the operation tracker.
type Client struct {
	baseURL     string
	accessToken string
	apiKey      string
	httpClient  *http.Client
	cache       *respcache.Cache
	cacheTTL    time.Duration
	tracker     *loader.Tracker
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithAccessToken authenticates with a v4 read access token (preferred).
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithAPIKey authenticates with a v3 api_key query parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithCacheTTL sets the response cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithCache supplies a ready-made response cache. It takes precedence over WithCacheTTL.
func WithCache(cache *respcache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTracker registers every outbound request with t.
func WithTracker(t *loader.Tracker) Option {
	return func(c *Client) {
		c.tracker = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new TMDB client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.cache == nil {
		cache, err := respcache.New(c.cacheTTL,
			respcache.WithLogger(c.logger),
			respcache.WithFetchTimeout(c.httpClient.Timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("tmdb cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Cache exposes the response cache for diagnostics and manual invalidation.
func (c *Client) Cache() *respcache.Cache {
	return c.cache
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.logger.Info("tmdb cache cleared")
}

// PopularMovies fetches a page of popular movies.
func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	page = normalizePage(page)
	return get[Page[Movie]](ctx, c,
		"popular-"+strconv.Itoa(page),
		"Loading popular movies...",
		"/3/movie/popular", pageParams(page))
}

// TopRatedMovies fetches a page of top rated movies.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	page = normalizePage(page)
	return get[Page[Movie]](ctx, c,
		"top-rated-"+strconv.Itoa(page),
		"Loading top rated movies...",
		"/3/movie/top_rated", pageParams(page))
}

// TrendingMovies fetches movies trending over the given window.
func (c *Client) TrendingMovies(ctx context.Context, window TimeWindow) (*Page[Movie], error) {
	if !window.Valid() {
		return nil, ErrInvalidWindow
	}
	return get[Page[Movie]](ctx, c,
		"trending-movies-"+string(window),
		"Loading trending movies...",
		"/3/trending/movie/"+string(window), nil)
}

// SearchMovies searches movies by title. A blank query returns an empty
// page without calling TMDB.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	query = title.NormalizeQuery(query)
	if query == "" {
		return emptyPage[Movie](), nil
	}
	page = normalizePage(page)
	params := pageParams(page)
	params.Set("query", query)
	return get[Page[Movie]](ctx, c,
		searchKey("search-movies", query, page),
		"Searching movies...",
		"/3/search/movie", params)
}

// MovieDetails fetches full metadata for one movie.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	return get[MovieDetails](ctx, c,
		"movie-"+strconv.FormatInt(id, 10),
		"Loading movie details...",
		"/3/movie/"+strconv.FormatInt(id, 10), nil)
}

// SimilarMovies fetches movies TMDB considers similar to id.
func (c *Client) SimilarMovies(ctx context.Context, id int64, page int) (*Page[Movie], error) {
	page = normalizePage(page)
	return get[Page[Movie]](ctx, c,
		fmt.Sprintf("similar-%d-%d", id, page),
		"Loading similar movies...",
		fmt.Sprintf("/3/movie/%d/similar", id), pageParams(page))
}

// FindMovieByTitle resolves a free-text title, optionally ending in a year
// ("Heat 1995"), to a single movie. Preference order: exact title with the
// same year, exact title, a close fuzzy match, then TMDB's top result.
func (c *Client) FindMovieByTitle(ctx context.Context, query string) (*Movie, error) {
	name, year := title.SplitYear(query)
	res, err := c.SearchMovies(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, ErrNotFound
	}

	want := title.Fold(name)
	exact := -1
	for i := range res.Results {
		m := &res.Results[i]
		if title.Fold(m.Title) != want {
			continue
		}
		if year != 0 && m.Year() == year {
			return m, nil
		}
		if exact < 0 {
			exact = i
		}
	}
	if exact >= 0 {
		return &res.Results[exact], nil
	}

	titles := make([]string, len(res.Results))
	for i, m := range res.Results {
		titles[i] = m.Title
	}
	if match := title.Match(name, titles); match.Confidence >= title.ConfidenceMedium {
		return &res.Results[match.Index], nil
	}
	return &res.Results[0], nil
}

// PopularTV fetches a page of popular TV series.
func (c *Client) PopularTV(ctx context.Context, page int) (*Page[Series], error) {
	page = normalizePage(page)
	return get[Page[Series]](ctx, c,
		"tv-popular-"+strconv.Itoa(page),
		"Loading popular TV series...",
		"/3/tv/popular", pageParams(page))
}

// TopRatedTV fetches a page of top rated TV series.
func (c *Client) TopRatedTV(ctx context.Context, page int) (*Page[Series], error) {
	page = normalizePage(page)
	return get[Page[Series]](ctx, c,
		"tv-top-rated-"+strconv.Itoa(page),
		"Loading top rated TV series...",
		"/3/tv/top_rated", pageParams(page))
}

// TrendingTV fetches TV series trending over the given window.
func (c *Client) TrendingTV(ctx context.Context, window TimeWindow) (*Page[Series], error) {
	if !window.Valid() {
		return nil, ErrInvalidWindow
	}
	return get[Page[Series]](ctx, c,
		"tv-trending-"+string(window),
		"Loading trending TV series...",
		"/3/trending/tv/"+string(window), nil)
}

// SearchTV searches TV series by name. A blank query returns an empty page.
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[Series], error) {
	query = title.NormalizeQuery(query)
	if query == "" {
		return emptyPage[Series](), nil
	}
	page = normalizePage(page)
	params := pageParams(page)
	params.Set("query", query)
	return get[Page[Series]](ctx, c,
		searchKey("search-tv", query, page),
		"Searching TV series...",
		"/3/search/tv", params)
}

// TVDetails fetches full metadata for one TV series.
func (c *Client) TVDetails(ctx context.Context, id int64) (*SeriesDetails, error) {
	return get[SeriesDetails](ctx, c,
		"tv-"+strconv.FormatInt(id, 10),
		"Loading series details...",
		"/3/tv/"+strconv.FormatInt(id, 10), nil)
}

// get serves path from the cache under key, or fetches it as a tracked operation.
func get[T any](ctx context.Context, c *Client, key, label, path string, params url.Values) (*T, error) {
	return respcache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (*T, error) {
		return tracked(ctx, c, label, func(ctx context.Context) (*T, error) {
			return request[T](ctx, c, path, params)
		})
	})
}

func tracked[T any](ctx context.Context, c *Client, label string, fn func(context.Context) (T, error)) (T, error) {
	if c.tracker == nil {
		return fn(ctx)
	}
	return loader.Wrap(ctx, c.tracker, label, fn)
}

func request[T any](ctx context.Context, c *Client, path string, params url.Values) (*T, error) {
	if c.accessToken == "" && c.apiKey == "" {
		return nil, ErrNoCredentials
	}

	// Build request
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if c.accessToken == "" {
		q.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	// Execute
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("tmdb request failed", "path", path, "error", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("tmdb request",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Handle errors
	if resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp)
		c.logger.Warn("tmdb api error", "path", path, "status", resp.StatusCode, "message", apiErr.StatusMessage)
		return nil, apiErr
	}

	// Decode
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	var body struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil {
		apiErr.StatusMessage = body.StatusMessage
		apiErr.TMDBCode = body.StatusCode
	}
	return apiErr
}

// searchKey folds the query so "Dune" and "DUNE" share one cache entry.
func searchKey(op, query string, page int) string {
	return op + "-" + url.QueryEscape(title.Fold(query)) + "-" + strconv.Itoa(page)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageParams(page int) url.Values {
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

// Package recommend builds movie recommendations from a user's likes, using
// an LLM when available and TMDB similar titles otherwise.
package recommend

//go:generate mockgen -destination=mocks/catalog.go -package=mocks github.com/vmunix/marquee/internal/recommend Catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/marquee/internal/ai"
	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/loader"
	"github.com/vmunix/marquee/internal/respcache"
	"github.com/vmunix/marquee/internal/tmdb"
)

const (
	// MinLikes is the fewest liked movies a request needs.
	MinLikes = likes.MinForRecommendations
	// MaxResults caps the recommendations returned.
	MaxResults = 6
	// DefaultCacheTTL is how long a successful AI answer is reused.
	DefaultCacheTTL = 30 * time.Minute
	// FetchTimeout bounds one generation, shared by every caller waiting on it.
	FetchTimeout = 3 * time.Minute

	defaultConfidence = 7
	fallbackSources   = 3

	Label = "Generating AI recommendations..."

	insufficientMessage = "Please like at least 3 movies to get AI recommendations."
	insufficientError   = "Insufficient data for AI recommendations"
	defaultExplanation  = "AI-powered recommendations based on your movie preferences."
	fallbackExplanation = "AI service temporarily unavailable. Showing similar movies based on your preferences."
	defaultReason       = "Recommended based on your preferences"
)

var (
	// ErrNoProvider indicates AI recommendations are disabled.
	ErrNoProvider = errors.New("ai provider not configured")

	// ErrInvalidResponse indicates the model's answer could not be parsed.
	ErrInvalidResponse = errors.New("failed to parse AI recommendations")
)

var codeFence = regexp.MustCompile("```json\n|\n```|```")

// Catalog is the subset of the TMDB client recommendations use.
type Catalog interface {
	FindMovieByTitle(ctx context.Context, query string) (*tmdb.Movie, error)
	SimilarMovies(ctx context.Context, id int64, page int) (*tmdb.Page[tmdb.Movie], error)
}

// Recommendation is one suggested movie.
type Recommendation struct {
	Movie       tmdb.Movie `json:"movie"`
	Reason      string     `json:"reason"`
	Confidence  int        `json:"confidence"`
	AIGenerated bool       `json:"ai_generated"`
}

// Response is the outcome of a recommendation request. Success is false
// when the AI path did not produce the results, even if fallback
// recommendations are present.
type Response struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation"`
	Error           string           `json:"error,omitempty"`
}

// Service produces recommendations.
type Service struct {
	catalog  Catalog
	provider ai.Provider
	cache    *respcache.Cache
	tracker  *loader.Tracker
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProvider sets the LLM backend. Without one every request falls back.
func WithProvider(p ai.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithCache supplies the cache for successful AI responses.
func WithCache(c *respcache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithTracker registers each generation with t.
func WithTracker(t *loader.Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a recommendation service.
func New(catalog Catalog, opts ...Option) (*Service, error) {
	s := &Service{catalog: catalog}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracker == nil {
		s.tracker = loader.New()
	}
	if s.cache == nil {
		c, err := respcache.New(DefaultCacheTTL,
			respcache.WithLogger(s.logger),
			respcache.WithFetchTimeout(FetchTimeout))
		if err != nil {
			return nil, fmt.Errorf("recommendation cache: %w", err)
		}
		s.cache = c
	}
	return s, nil
}

// Cache exposes the AI response cache.
func (s *Service) Cache() *respcache.Cache {
	return s.cache
}

// CacheKey identifies a set of liked movies independent of order.
func CacheKey(liked []likes.Movie) string {
	ids := make([]int64, len(liked))
	for i, m := range liked {
		ids[i] = m.TMDBID
	}
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "ai-recommendations-" + strings.Join(parts, "-")
}

// Recommend suggests movies for the given likes, oldest first. It returns an
// error only when ctx is done; every other failure is reported in the
// Response.
func (s *Service) Recommend(ctx context.Context, liked []likes.Movie) (*Response, error) {
	if len(liked) < MinLikes {
		return &Response{
			Recommendations: []Recommendation{},
			Explanation:     insufficientMessage,
			Error:           insufficientError,
		}, nil
	}

	id := fmt.Sprintf("ai-recommendations-%d", len(liked))
	resp, err := respcache.GetOrFetch(ctx, s.cache, CacheKey(liked), func(ctx context.Context) (*Response, error) {
		return loader.WrapID(ctx, s.tracker, id, Label, func(ctx context.Context) (*Response, error) {
			return s.generate(ctx, liked)
		})
	})
	if err == nil {
		return resp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	s.logger.Warn("ai recommendations failed, using similar titles", "error", err)
	return loader.WrapID(ctx, s.tracker, id, Label, func(ctx context.Context) (*Response, error) {
		recs := s.fallback(ctx, liked)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return &Response{
			Recommendations: recs,
			Explanation:     fallbackExplanation,
			Error:           err.Error(),
		}, nil
	})
}

type aiAnswer struct {
	Explanation     string `json:"explanation"`
	Recommendations []struct {
		Title      string          `json:"title"`
		Year       json.RawMessage `json:"year"`
		Reason     string          `json:"reason"`
		Confidence float64         `json:"confidence"`
	} `json:"recommendations"`
}

func (s *Service) generate(ctx context.Context, liked []likes.Movie) (*Response, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	text, err := s.provider.Generate(ctx, Prompt(liked))
	if err != nil {
		return nil, err
	}
	answer, err := parseAnswer(text)
	if err != nil {
		return nil, err
	}

	likedTitles := make(map[string]bool, len(liked))
	for _, m := range liked {
		likedTitles[strings.ToLower(m.Title)] = true
	}

	recs := []Recommendation{}
	for _, item := range answer.Recommendations {
		query := strings.TrimSpace(item.Title + " " + yearString(item.Year))
		if query == "" {
			continue
		}
		movie, err := s.catalog.FindMovieByTitle(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Debug("recommended title not resolved", "query", query, "error", err)
			continue
		}
		if likedTitles[strings.ToLower(movie.Title)] {
			continue
		}
		reason := item.Reason
		if reason == "" {
			reason = defaultReason
		}
		recs = append(recs, Recommendation{
			Movie:       *movie,
			Reason:      reason,
			Confidence:  clampConfidence(item.Confidence),
			AIGenerated: true,
		})
		if len(recs) >= MaxResults {
			break
		}
	}

	explanation := answer.Explanation
	if explanation == "" {
		explanation = defaultExplanation
	}
	return &Response{Success: true, Recommendations: recs, Explanation: explanation}, nil
}

func parseAnswer(text string) (*aiAnswer, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	var answer aiAnswer
	if err := json.Unmarshal([]byte(clean), &answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if answer.Recommendations == nil {
		return nil, fmt.Errorf("%w: missing recommendations", ErrInvalidResponse)
	}
	return &answer, nil
}

// fallback collects TMDB similar titles for the most recent likes.
func (s *Service) fallback(ctx context.Context, liked []likes.Movie) []Recommendation {
	seen := make(map[int64]bool, len(liked))
	for _, m := range liked {
		seen[m.TMDBID] = true
	}

	recs := []Recommendation{}
	sources := liked[max(0, len(liked)-fallbackSources):]
	for _, src := range sources {
		page, err := s.catalog.SimilarMovies(ctx, src.TMDBID, 1)
		if err != nil {
			if ctx.Err() != nil {
				return recs
			}
			s.logger.Debug("similar titles unavailable", "tmdb_id", src.TMDBID, "error", err)
			continue
		}
		for _, m := range page.Results {
			if seen[m.ID] || len(recs) >= MaxResults {
				continue
			}
			seen[m.ID] = true
			recs = append(recs, Recommendation{
				Movie:      m,
				Reason:     fmt.Sprintf("Similar to \"%s\" which you loved", src.Title),
				Confidence: defaultConfidence,
			})
		}
	}
	return recs
}

func clampConfidence(c float64) int {
	if c == 0 {
		return defaultConfidence
	}
	return min(max(int(c), 1), 10)
}

// yearString accepts the year as either a JSON string or number.
func yearString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return strconv.Itoa(int(n))
	}
	return ""
}

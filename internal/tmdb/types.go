// Package tmdb provides a cached client for The Movie Database API.
package tmdb

import "strconv"

const imageBaseURL = "https://image.tmdb.org/t/p/"

// Movie is a movie as it appears in TMDB list and search results.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"` // "2024-03-01"
	PosterPath       string  `json:"poster_path"`  // "/abc123.jpg"
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// MovieDetails is the response from GET /movie/{id}.
type MovieDetails struct {
	Movie
	IMDBID              string              `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Tagline             string              `json:"tagline"`
	Status              string              `json:"status"`
	Homepage            string              `json:"homepage"`
	Runtime             int                 `json:"runtime"` // minutes
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []Country           `json:"production_countries"`
	SpokenLanguages     []Language          `json:"spoken_languages"`
}

// Series is a TV series as it appears in TMDB list and search results.
type Series struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	OriginCountry    []string `json:"origin_country,omitempty"`
}

// SeriesDetails is the response from GET /tv/{id}.
type SeriesDetails struct {
	Series
	Tagline          string  `json:"tagline"`
	Status           string  `json:"status"`
	Homepage         string  `json:"homepage"`
	LastAirDate      string  `json:"last_air_date"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []Genre `json:"genres"`
}

// Page is one page of a paginated TMDB listing.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Genre represents a movie or series genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCompany struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

type Country struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

type Language struct {
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// TimeWindow selects the trending period.
type TimeWindow string

const (
	Day  TimeWindow = "day"
	Week TimeWindow = "week"
)

// Valid reports whether w is a window TMDB accepts.
func (w TimeWindow) Valid() bool {
	return w == Day || w == Week
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// PosterURL returns the full poster image URL, or "" without a poster.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *Movie) PosterURL(size string) string {
	return imageURL(m.PosterPath, size)
}

// BackdropURL returns the full backdrop image URL, or "" without a backdrop.
// Size can be: w300, w780, w1280, original
func (m *Movie) BackdropURL(size string) string {
	return imageURL(m.BackdropPath, size)
}

// Year extracts the year from FirstAirDate.
func (s *Series) Year() int {
	return yearOf(s.FirstAirDate)
}

// PosterURL returns the full poster image URL, or "" without a poster.
func (s *Series) PosterURL(size string) string {
	return imageURL(s.PosterPath, size)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return imageBaseURL + size + path
}

// emptyPage is returned for blank search queries without touching the network.
func emptyPage[T any]() *Page[T] {
	return &Page[T]{Page: 1, Results: []T{}}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/marquee/internal/likes"
	"github.com/vmunix/marquee/internal/recommend"
	"github.com/vmunix/marquee/internal/tmdb"
)

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func yearLabel(year int) string {
	if year == 0 {
		return "----"
	}
	return fmt.Sprintf("%d", year)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printMovies(w io.Writer, page *tmdb.Page[tmdb.Movie]) {
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No movies found")
		return
	}
	fmt.Fprintf(w, "  %-8s %-40s %-5s %-6s %s\n", "ID", "TITLE", "YEAR", "RATING", "VOTES")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 72))
	for i := range page.Results {
		m := &page.Results[i]
		fmt.Fprintf(w, "  %-8d %-40s %-5s %-6.1f %s\n",
			m.ID, truncate(m.Title, 40), yearLabel(m.Year()), m.VoteAverage, humanize.Comma(int64(m.VoteCount)))
	}
	if page.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %s (%s results)\n",
			page.Page, humanize.Comma(int64(page.TotalPages)), humanize.Comma(int64(page.TotalResults)))
	}
}

func printSeriesList(w io.Writer, page *tmdb.Page[tmdb.Series]) {
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No series found")
		return
	}
	fmt.Fprintf(w, "  %-8s %-40s %-5s %-6s %s\n", "ID", "NAME", "YEAR", "RATING", "VOTES")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 72))
	for i := range page.Results {
		s := &page.Results[i]
		fmt.Fprintf(w, "  %-8d %-40s %-5s %-6.1f %s\n",
			s.ID, truncate(s.Name, 40), yearLabel(s.Year()), s.VoteAverage, humanize.Comma(int64(s.VoteCount)))
	}
	if page.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %s\n", page.Page, humanize.Comma(int64(page.TotalPages)))
	}
}

func printMovieDetails(w io.Writer, m *tmdb.MovieDetails) {
	fmt.Fprintf(w, "%s (%s)\n", m.Title, yearLabel(m.Year()))
	if m.Tagline != "" {
		fmt.Fprintf(w, "  %q\n", m.Tagline)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  TMDB ID:  %d\n", m.ID)
	if m.IMDBID != "" {
		fmt.Fprintf(w, "  IMDB ID:  %s\n", m.IMDBID)
	}
	fmt.Fprintf(w, "  Rating:   %.1f (%s votes)\n", m.VoteAverage, humanize.Comma(int64(m.VoteCount)))
	if m.Runtime > 0 {
		fmt.Fprintf(w, "  Runtime:  %dh %02dm\n", m.Runtime/60, m.Runtime%60)
	}
	if len(m.Genres) > 0 {
		names := make([]string, len(m.Genres))
		for i, g := range m.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(names, ", "))
	}
	if m.Budget > 0 {
		fmt.Fprintf(w, "  Budget:   $%s\n", humanize.Comma(m.Budget))
	}
	if m.Revenue > 0 {
		fmt.Fprintf(w, "  Revenue:  $%s\n", humanize.Comma(m.Revenue))
	}
	if url := m.PosterURL("w500"); url != "" {
		fmt.Fprintf(w, "  Poster:   %s\n", url)
	}
	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}
}

func printSeriesDetails(w io.Writer, s *tmdb.SeriesDetails) {
	fmt.Fprintf(w, "%s (%s)\n\n", s.Name, yearLabel(s.Year()))
	fmt.Fprintf(w, "  TMDB ID:  %d\n", s.ID)
	fmt.Fprintf(w, "  Rating:   %.1f (%s votes)\n", s.VoteAverage, humanize.Comma(int64(s.VoteCount)))
	fmt.Fprintf(w, "  Seasons:  %d (%d episodes)\n", s.NumberOfSeasons, s.NumberOfEpisodes)
	if s.Status != "" {
		fmt.Fprintf(w, "  Status:   %s\n", s.Status)
	}
	if s.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", s.Overview)
	}
}

func printLikes(w io.Writer, items []likes.Movie, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No liked movies yet. Use 'marquee like <id>' to add one.")
		return
	}
	fmt.Fprintf(w, "Liked movies (%d):\n\n", len(items))
	fmt.Fprintf(w, "  %-8s %-40s %-5s %s\n", "ID", "TITLE", "YEAR", "LIKED")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))
	for _, m := range items {
		fmt.Fprintf(w, "  %-8d %-40s %-5s %s\n",
			m.TMDBID, truncate(m.Title, 40), yearLabel(m.Year()), humanize.RelTime(m.LikedAt, now, "ago", "from now"))
	}
	if len(items) < likes.MinForRecommendations {
		fmt.Fprintf(w, "\nLike %d more to unlock recommendations.\n", likes.MinForRecommendations-len(items))
	}
}

func printRecommendations(w io.Writer, r *recommend.Response) {
	if len(r.Recommendations) == 0 {
		msg := r.Error
		if msg == "" {
			msg = "No recommendations"
		}
		fmt.Fprintln(w, msg)
		return
	}
	fmt.Fprintln(w, r.Explanation)
	fmt.Fprintln(w)
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "%d. %s (%s)  [%d/10]\n", i+1, rec.Movie.Title, yearLabel(rec.Movie.Year()), rec.Confidence)
		fmt.Fprintf(w, "   %s\n", rec.Reason)
	}
	if !r.Success && r.Error != "" {
		fmt.Fprintf(w, "\nNote: %s\n", r.Error)
	}
}

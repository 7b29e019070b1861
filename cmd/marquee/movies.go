package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		list := "popular"
		if top, _ := cmd.Flags().GetBool("top-rated"); top {
			list = "top-rated"
		}
		movies, err := newClient().Movies(list, page, "")
		if err != nil {
			return fmt.Errorf("fetch %s movies: %w", list, err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), movies)
			return nil
		}
		printMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetString("window")
		movies, err := newClient().Movies("trending", 0, window)
		if err != nil {
			return fmt.Errorf("fetch trending movies: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), movies)
			return nil
		}
		printMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Example: `  marquee search the matrix
  marquee search dune --page 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		movies, err := newClient().SearchMovies(strings.Join(args, " "), page)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), movies)
			return nil
		}
		printMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

var movieCmd = &cobra.Command{
	Use:   "movie <id | title [year]>",
	Short: "Show movie details",
	Example: `  marquee movie 603
  marquee movie heat 1995`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		id, err := resolveMovieID(client, args)
		if err != nil {
			return err
		}
		details, err := client.Movie(id)
		if err != nil {
			return fmt.Errorf("fetch movie %d: %w", id, err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), details)
			return nil
		}
		printMovieDetails(cmd.OutOrStdout(), details)
		return nil
	},
}

// resolveMovieID accepts a TMDB id or a free-text title looked up on the server.
func resolveMovieID(client *Client, args []string) (int64, error) {
	if len(args) == 1 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	title := strings.Join(args, " ")
	movie, err := client.LookupMovie(title)
	if err != nil {
		return 0, fmt.Errorf("lookup %q: %w", title, err)
	}
	return movie.ID, nil
}

func init() {
	popularCmd.Flags().Int("page", 1, "Result page")
	popularCmd.Flags().Bool("top-rated", false, "List top rated instead of popular")
	trendingCmd.Flags().String("window", "day", "Trending window: day or week")
	_ = trendingCmd.RegisterFlagCompletionFunc("window", completeWindow)
	searchCmd.Flags().Int("page", 1, "Result page")

	rootCmd.AddCommand(popularCmd, trendingCmd, searchCmd, movieCmd)
}

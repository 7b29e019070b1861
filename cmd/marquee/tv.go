package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/tmdb"
)

var tvCmd = &cobra.Command{
	Use:   "tv [popular | top-rated | trending | search <query> | <id>]",
	Short: "Browse TV series",
	Example: `  marquee tv
  marquee tv trending --window week
  marquee tv search the wire
  marquee tv 1399`,
	RunE: runTVCmd,
}

func init() {
	tvCmd.Flags().Int("page", 1, "Result page")
	tvCmd.Flags().String("window", "day", "Trending window: day or week")
	_ = tvCmd.RegisterFlagCompletionFunc("window", completeWindow)
	rootCmd.AddCommand(tvCmd)
}

func runTVCmd(cmd *cobra.Command, args []string) error {
	client := newClient()
	out := cmd.OutOrStdout()
	page, _ := cmd.Flags().GetInt("page")
	window, _ := cmd.Flags().GetString("window")

	action := "popular"
	if len(args) > 0 {
		action = args[0]
	}

	if id, err := strconv.ParseInt(action, 10, 64); err == nil {
		series, err := client.Series(id)
		if err != nil {
			return fmt.Errorf("fetch series %d: %w", id, err)
		}
		if jsonOutput {
			printJSON(out, series)
			return nil
		}
		printSeriesDetails(out, series)
		return nil
	}

	var (
		list *tmdb.Page[tmdb.Series]
		err  error
	)
	switch action {
	case "popular", "top-rated":
		list, err = client.TV(action, page, "")
	case "trending":
		list, err = client.TV(action, 0, window)
	case "search":
		if len(args) < 2 {
			return errors.New("search requires a query")
		}
		list, err = client.SearchTV(strings.Join(args[1:], " "), page)
	default:
		return fmt.Errorf("unknown tv action %q", action)
	}
	if err != nil {
		return fmt.Errorf("fetch tv %s: %w", action, err)
	}
	if jsonOutput {
		printJSON(out, list)
		return nil
	}
	printSeriesList(out, list)
	return nil
}

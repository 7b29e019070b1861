package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status and TMDB configuration",
	Long: `Show server status and configuration health.

Examples:
  marquee status           # Configuration check without network calls
  marquee status --check   # Also test TMDB credentials live`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		check, _ := cmd.Flags().GetBool("check")
		st, err := newClient().Status(check)
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), st)
			return nil
		}
		printStatus(cmd.OutOrStdout(), serverURL, st)
		return nil
	},
}

var loadingCmd = &cobra.Command{
	Use:   "loading",
	Short: "Show in-flight server operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Loading()
		if err != nil {
			return fmt.Errorf("fetch loading state: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}
		printLoading(cmd.OutOrStdout(), resp, time.Now())
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear response caches",
	Example: `  marquee cache
  marquee cache --clear
  marquee cache --clear --name tmdb`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		out := cmd.OutOrStdout()

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			name, _ := cmd.Flags().GetString("name")
			resp, err := client.ClearCache(name)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if jsonOutput {
				printJSON(out, resp)
				return nil
			}
			for _, n := range slices.Sorted(maps.Keys(resp.Cleared)) {
				fmt.Fprintf(out, "Cleared %s (%d entries)\n", n, resp.Cleared[n])
			}
			return nil
		}

		resp, err := client.Cache()
		if err != nil {
			return fmt.Errorf("fetch cache stats: %w", err)
		}
		if jsonOutput {
			printJSON(out, resp)
			return nil
		}
		printCache(out, resp)
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		events, err := newClient().Events(limit)
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), events)
			return nil
		}
		printEvents(cmd.OutOrStdout(), events, time.Now())
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("check", false, "Test TMDB credentials with a live request")
	cacheCmd.Flags().Bool("clear", false, "Clear caches")
	cacheCmd.Flags().String("name", "", "Only clear this cache (tmdb or recommendations)")
	_ = cacheCmd.RegisterFlagCompletionFunc("name", completeCacheName)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	rootCmd.AddCommand(statusCmd, loadingCmd, cacheCmd, eventsCmd)
}

func printStatus(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "Server:           %s (%s)\n", server, s.Status)
	if s.Version != "" {
		fmt.Fprintf(w, "Version:          %s\n", s.Version)
	}
	tmdbState := "configured"
	if !s.TMDB.Valid {
		tmdbState = "NOT CONFIGURED"
	}
	fmt.Fprintf(w, "TMDB:             %s\n", tmdbState)
	for _, e := range s.TMDB.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, warn := range s.TMDB.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	if s.TMDBCheck != nil {
		fmt.Fprintf(w, "  check:   %s\n", s.TMDBCheck.Message)
	}
	if s.TMDBError != "" {
		fmt.Fprintf(w, "  check:   FAIL %s\n", s.TMDBError)
	}
	recs := "disabled"
	if s.Recommendations {
		recs = "enabled"
	}
	fmt.Fprintf(w, "Recommendations:  %s\n", recs)
	fmt.Fprintf(w, "Active loads:     %d\n", s.ActiveLoads)
}

func printLoading(w io.Writer, r *LoadingResponse, now time.Time) {
	if !r.Active {
		fmt.Fprintln(w, "Idle")
		return
	}
	label := "Loading..."
	if r.Current != nil {
		label = r.Current.Label
	}
	fmt.Fprintf(w, "%s (%d active)\n\n", label, r.Count)
	for _, op := range r.Operations {
		fmt.Fprintf(w, "  %-40s %-32s %s\n", op.ID, truncate(op.Label, 32), humanize.RelTime(op.StartedAt, now, "ago", "from now"))
	}
}

func printCache(w io.Writer, r *CacheResponse) {
	if len(r.Caches) == 0 {
		fmt.Fprintln(w, "No caches")
		return
	}
	fmt.Fprintf(w, "  %-16s %-8s %-8s %-8s %s\n", "CACHE", "ENTRIES", "HITS", "MISSES", "TTL")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 55))
	for _, name := range slices.Sorted(maps.Keys(r.Caches)) {
		c := r.Caches[name]
		ttl := time.Duration(c.TTLSeconds * float64(time.Second))
		fmt.Fprintf(w, "  %-16s %-8d %-8s %-8s %s\n",
			name, c.Size, humanize.Comma(int64(c.Hits)), humanize.Comma(int64(c.Misses)), ttl)
	}
}

func printEvents(w io.Writer, r *EventsResponse, now time.Time) {
	if len(r.Items) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	fmt.Fprintf(w, "Recent Events (%d):\n\n", r.Total)
	fmt.Fprintf(w, "  %-16s %-28s %-20s\n", "TIME", "TYPE", "ENTITY")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 66))
	for _, e := range r.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		ago := humanize.RelTime(t, now, "ago", "from now")
		fmt.Fprintf(w, "  %-16s %-28s %-20s\n", ago, e.EventType, e.EntityType+"/"+e.EntityID)
	}
}

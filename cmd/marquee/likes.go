package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <id | title [year]>",
	Short: "Like a movie",
	Example: `  marquee like 603
  marquee like blade runner 1982`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		id, err := resolveMovieID(client, args)
		if err != nil {
			return err
		}
		if toggle, _ := cmd.Flags().GetBool("toggle"); toggle {
			liked, err := client.ToggleLike(id)
			if err != nil {
				return fmt.Errorf("toggle failed: %w", err)
			}
			if liked {
				fmt.Fprintf(cmd.OutOrStdout(), "Liked %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from likes\n", id)
			}
			return nil
		}
		movie, err := client.Like(id)
		if err != nil {
			return fmt.Errorf("like failed: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), movie)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Liked %s (%s)\n", movie.Title, yearLabel(movie.Year()))
		return nil
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <id>",
	Short: "Remove a movie from your likes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid movie ID: %s", args[0])
		}
		if err := newClient().Unlike(id); err != nil {
			return fmt.Errorf("unlike failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from likes\n", id)
		return nil
	},
}

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "List liked movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		out := cmd.OutOrStdout()

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			n, err := client.ClearLikes()
			if err != nil {
				return fmt.Errorf("clear likes: %w", err)
			}
			fmt.Fprintf(out, "Removed %d liked movies\n", n)
			return nil
		}

		resp, err := client.Likes()
		if err != nil {
			return fmt.Errorf("fetch likes: %w", err)
		}
		if jsonOutput {
			printJSON(out, resp)
			return nil
		}
		printLikes(out, resp.Items, time.Now())
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get recommendations based on your likes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Recommendations()
		if err != nil {
			return fmt.Errorf("recommendations failed: %w", err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}
		printRecommendations(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	likeCmd.Flags().Bool("toggle", false, "Unlike the movie if it is already liked")
	likesCmd.Flags().Bool("clear", false, "Remove every like")
	rootCmd.AddCommand(likeCmd, unlikeCmd, likesCmd, recommendCmd)
}

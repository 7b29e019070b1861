package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	authToken  string
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "CLI client for the marquee movie server",
	Long: `marquee - CLI client for the marquee movie server

Browse TMDB, keep a list of liked movies, and get
AI recommendations based on what you like.

Run 'marqueed' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MARQUEE_SERVER", "http://localhost:8585"), "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Session token (default: saved login)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("marquee {{.Version}}\n")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// newClient builds a client from the persistent flags, falling back to the
// token saved by login or register.
func newClient() *Client {
	token := authToken
	if token == "" {
		token, _ = loadToken()
	}
	return NewClient(serverURL, token)
}

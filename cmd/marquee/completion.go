package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for marquee.

  bash:       source <(marquee completion bash)
  zsh:        marquee completion zsh > "${fpath[1]}/_marquee"
  fish:       marquee completion fish | source
  powershell: marquee completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

func completeWindow(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"day\tLast 24 hours", "week\tLast 7 days"}, cobra.ShellCompDirectiveNoFileComp
}

func completeCacheName(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"tmdb", "recommendations"}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

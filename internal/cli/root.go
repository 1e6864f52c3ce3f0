package cli

import (
	"github.com/spf13/cobra"
)

// buildRootCmdWith constructs the command tree bound to g.
func buildRootCmdWith(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:           "lpcli",
		Short:         "Run local inference sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (.yaml, .json, .toml); defaults to LLAMAPANAMA_CONFIG")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error|off")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return g.setup()
	}

	root.AddCommand(
		newGenerateCmd(g),
		newEmbedCmd(g),
		newTokenizeCmd(g),
		newModelsCmd(g),
		newServeCmd(g),
	)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	root.AddCommand(completionCmd)
	root.CompletionOptions.DisableDefaultCmd = true

	return root
}

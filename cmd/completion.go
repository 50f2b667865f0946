package cmd

import (
	"strings"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/spf13/cobra"
)

// commonEncodings are offered when completing --encoding. Names the codec
// registry does not know are left out.
var commonEncodings = []string{
	"utf-8", "ascii", "shift_jis", "euc-jp", "iso-2022-jp", "iso-8859-1",
	"windows-1252", "gbk", "big5", "euc-kr",
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for termkit.

To load completions:

Bash:
  $ source <(termkit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ termkit completion bash > /etc/bash_completion.d/termkit
  # macOS:
  $ termkit completion bash > $(brew --prefix)/etc/bash_completion.d/termkit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ termkit completion zsh > "${fpath[1]}/_termkit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ termkit completion fish | source

  # To load completions for each session, execute once:
  $ termkit completion fish > ~/.config/fish/completions/termkit.fish

PowerShell:
  PS> termkit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> termkit completion powershell > termkit.ps1
  # and source this file from your PowerShell profile.
`,
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
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeValues completes a flag from a fixed list of values.
func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, strings.ToLower(toComplete)) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeEncodings(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var known []string
	for _, enc := range commonEncodings {
		if strutil.ValidEncoding(enc) {
			known = append(known, enc)
		}
	}
	return completeValues(known...)(cmd, args, toComplete)
}

// completeSessions completes recorded history session names.
func completeSessions(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	db, err := openHistory()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer db.Close()
	return completeValues(db.Sessions()...)(nil, nil, toComplete)
}

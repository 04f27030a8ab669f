package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/planner"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for seatplan.

Bash:
  $ source <(seatplan completion bash)

Zsh:
  $ seatplan completion zsh > "${fpath[1]}/_seatplan"

Fish:
  $ seatplan completion fish > ~/.config/fish/completions/seatplan.fish

PowerShell:
  PS> seatplan completion powershell | Out-String | Invoke-Expression

Layout ids complete from the configured store.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeLayoutIDs completes the first argument with the ids of the
// user's layouts, described by name. Store errors yield no suggestions.
func (c *CLI) completeLayoutIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	user, err := c.user()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var ids []string
	_ = c.withPlanner(ctx, func(svc *planner.Service) error {
		layouts, err := svc.ListMine(ctx, user)
		if err != nil {
			return err
		}
		for _, l := range layouts {
			ids = append(ids, l.ID+"\t"+l.Name)
		}
		return nil
	})
	return ids, cobra.ShellCompDirectiveNoFileComp
}

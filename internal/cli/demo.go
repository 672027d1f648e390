package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitdemo.dev/gitdemo/internal/conflict"
	"gitdemo.dev/gitdemo/internal/demo"
	demoerrors "gitdemo.dev/gitdemo/internal/errors"
	"gitdemo.dev/gitdemo/internal/runtime"
	"gitdemo.dev/gitdemo/internal/tui"
)

// demoFlags are the flags accepted by every demo command
type demoFlags struct {
	reset  bool
	policy string
	choose bool
}

// newDemoCmd creates the command running one demo script
func newDemoCmd(script demo.Script, opts *rootOptions) *cobra.Command {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   script.Name,
		Short: script.Short,
		Long: fmt.Sprintf(`%s.

The repository is created in %s/ below the base directory.`, script.Short, script.Dir),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx *runtime.Context) error {
				policy, err := resolvePolicy(ctx, flags)
				if err != nil {
					return err
				}
				return runScript(cmd.Context(), ctx, script, flags.reset, policy)
			})
		},
	}

	cmd.Flags().BoolVar(&flags.reset, "reset", false, "Remove the demo's directories before running")
	if script.ResolvesConflicts {
		addPolicyFlags(cmd, flags)
	}

	return cmd
}

// newAllCmd creates the command running every demo in order
func newAllCmd(opts *rootOptions) *cobra.Command {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every demo in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx *runtime.Context) error {
				policy, err := resolvePolicy(ctx, flags)
				if err != nil {
					return err
				}
				for _, script := range demo.Scripts() {
					if err := runScript(cmd.Context(), ctx, script, flags.reset, policy); err != nil {
						return fmt.Errorf("%s demo: %w", script.Name, err)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flags.reset, "reset", false, "Remove every demo's directories before running")
	addPolicyFlags(cmd, flags)

	return cmd
}

func addPolicyFlags(cmd *cobra.Command, flags *demoFlags) {
	names := make([]string, 0, len(conflict.Policies()))
	for _, p := range conflict.Policies() {
		names = append(names, p.String())
	}
	cmd.Flags().StringVar(&flags.policy, "policy", "", "Conflict resolution policy: "+strings.Join(names, ", ")+" (default from config)")
	cmd.Flags().BoolVar(&flags.choose, "choose", false, "Pick the conflict resolution policy interactively")
	cmd.MarkFlagsMutuallyExclusive("policy", "choose")
	_ = cmd.RegisterFlagCompletionFunc("policy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolvePolicy returns the policy chosen on the command line, or nil to use the configured one
func resolvePolicy(ctx *runtime.Context, flags *demoFlags) (*conflict.Policy, error) {
	switch {
	case flags.policy != "":
		p, err := conflict.ParsePolicy(flags.policy)
		if err != nil {
			return nil, err
		}
		return &p, nil
	case flags.choose:
		if !tui.IsTTY() {
			return nil, fmt.Errorf("--choose needs an interactive terminal; use --policy instead")
		}
		p, err := tui.SelectPolicy(ctx.Config.ConflictPolicy)
		if err != nil {
			return nil, err
		}
		return &p, nil
	default:
		return nil, nil
	}
}

// runScript optionally resets, then runs one demo script
func runScript(goCtx context.Context, ctx *runtime.Context, script demo.Script, reset bool, policy *conflict.Policy) error {
	splog := ctx.Splog
	existing := script.Existing(ctx.BaseDir)

	if reset && len(existing) > 0 {
		if err := confirmReset(ctx, script, existing); err != nil {
			return err
		}
	}

	splog.Info("%s", splog.Styles().Step.Render(fmt.Sprintf("== %s: %s ==", script.Name, script.Short)))
	_, err := script.Run(goCtx, demo.Settings{
		BaseDir: ctx.BaseDir,
		Config:  ctx.Config,
		Splog:   splog,
		Policy:  policy,
	})
	if err != nil && !reset && len(existing) > 0 &&
		(errors.Is(err, demoerrors.ErrNoChanges) || errors.Is(err, demoerrors.ErrBranchExists) || errors.Is(err, demoerrors.ErrEnvironment)) {
		splog.Tip("%s already held a previous run; use --reset to start from scratch", script.Dir)
	}
	return err
}

// confirmReset removes the script's directories, asking first on a terminal
func confirmReset(ctx *runtime.Context, script demo.Script, existing []string) error {
	if tui.IsTTY() {
		ok, err := tui.PromptConfirm(fmt.Sprintf("Remove %s?", strings.Join(existing, ", ")), false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reset canceled")
		}
	}
	if err := script.Reset(ctx.BaseDir); err != nil {
		return err
	}
	for _, d := range existing {
		ctx.Splog.Info("Removed %s", ctx.Splog.Styles().Path.Render(d))
	}
	return nil
}

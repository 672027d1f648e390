// Package cli wires the gitdemo commands with cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitdemo.dev/gitdemo/internal/demo"
	"gitdemo.dev/gitdemo/internal/runtime"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	dir        string
	configPath string
	debug      bool
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitdemo",
		Short: "Step-by-step demonstrations of everyday git workflows",
		Long: `gitdemo runs scripted git sessions in throwaway repositories: repository
basics, branching, merge conflict resolution and working with remotes.

Every step shells out to the git executable and prints what it did, so the
repositories left behind can be explored afterwards.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Base directory for the demo repositories (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a gitdemo YAML config file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Print debug output")

	for _, script := range demo.Scripts() {
		rootCmd.AddCommand(newDemoCmd(script, opts))
	}
	rootCmd.AddCommand(newAllCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// run is a helper that provides a runtime context to a command's execution function
func run(cmd *cobra.Command, opts *rootOptions, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(runtime.Options{
		BaseDir:    opts.dir,
		ConfigPath: opts.configPath,
		Debug:      opts.debug,
		Output:     cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	if path := ctx.Config.Path(); path != "" {
		ctx.Splog.Debug("Loaded config from %s", path)
	}
	return fn(ctx)
}

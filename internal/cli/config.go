package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gitdemo.dev/gitdemo/internal/config"
	"gitdemo.dev/gitdemo/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the gitdemo configuration",
		Long: `Show or create the gitdemo configuration.

Configuration is read from --config, $GITDEMO_CONFIG, or .gitdemo.yaml in the
base directory. GITDEMO_CONFLICT_POLICY, GITDEMO_INITIAL_BRANCH,
GITDEMO_REMOTE_URL and GITDEMO_LOG_FILE override the file.

Examples:
  gitdemo config show
  gitdemo config init --dir /tmp/demos`,
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigInitCmd(opts))

	return cmd
}

// newConfigShowCmd creates the config show command
func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx *runtime.Context) error {
				data, err := ctx.Config.Marshal()
				if err != nil {
					return err
				}
				source := ctx.Config.Path()
				if source == "" {
					source = "built-in defaults"
				}
				ctx.Splog.Info("# source: %s", source)
				ctx.Splog.Page(string(data))
				return nil
			})
		},
	}
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to .gitdemo.yaml in the base directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx *runtime.Context) error {
				path := filepath.Join(ctx.BaseDir, config.FileName)
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists; use --force to overwrite", path)
				}
				if err := config.Default().Save(path); err != nil {
					return err
				}
				ctx.Splog.Success("Wrote %s", ctx.Splog.Styles().Path.Render(path))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

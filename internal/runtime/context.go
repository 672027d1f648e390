// Package runtime provides a context type that holds the configuration and
// logger for use throughout the application. This avoids passing multiple parameters.
package runtime

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitdemo.dev/gitdemo/internal/config"
	"gitdemo.dev/gitdemo/internal/output"
)

// Context provides access to configuration and output for commands
type Context struct {
	Config  *config.Config
	Splog   *output.Splog
	BaseDir string
}

// Options controls how a Context is built
type Options struct {
	// BaseDir is where demo repositories are created; defaults to the working directory
	BaseDir string
	// ConfigPath is an explicit configuration file
	ConfigPath string
	Debug      bool
	Output     io.Writer
}

// NewContext creates a context with the given configuration and logger
func NewContext(cfg *config.Config, splog *output.Splog, baseDir string) *Context {
	return &Context{
		Config:  cfg,
		Splog:   splog,
		BaseDir: baseDir,
	}
}

// GetContext resolves the base directory, loads configuration and opens the logger
func GetContext(opts Options) (*Context, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	cfg, err := config.Load(baseDir, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	splogOpts := output.Options{LogFile: cfg.LogFile, Debug: opts.Debug}
	if opts.Output != nil {
		splogOpts.Writer = opts.Output
	}
	splog, err := output.NewSplogWithOptions(splogOpts)
	if err != nil {
		return nil, err
	}

	return NewContext(cfg, splog, baseDir), nil
}

// Close releases the logger's file handle
func (c *Context) Close() error {
	if c.Splog == nil {
		return nil
	}
	return c.Splog.Close()
}

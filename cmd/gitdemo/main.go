package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"gitdemo.dev/gitdemo/internal/cli"
	"gitdemo.dev/gitdemo/internal/demo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Step failures were already reported as the demo ran
		var stepErr *demo.StepError
		if !errors.As(err, &stepErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/internal/cli"
	"github.com/matzehuels/seatplan/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	if stderrors.Is(err, context.Canceled) {
		os.Exit(130) // interrupted
	}
	msg := errors.UserMessage(err)
	if errors.Is(err, errors.ErrCodePersistence) {
		msg = err.Error()
	}
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(exitCode(err))
}

// exitCode maps error codes to process exit statuses: 2 for bad input,
// 3 for missing or forbidden resources, 4 for storage failures.
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeValidation, errors.ErrCodeInvalidInput:
		return 2
	case errors.ErrCodeNotFound, errors.ErrCodeUnauthorized, errors.ErrCodePermissionDenied:
		return 3
	case errors.ErrCodePersistence:
		return 4
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level is only known once flags are parsed.
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

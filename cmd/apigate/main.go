package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "apigate",
		Short:         "Schema-driven validation and authentication gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(rulesCmd())
	return rootCmd
}

// errInvalidPayload makes the process exit with 1 without printing an error;
// the validation report has already been written.
type errInvalidPayload struct{ count int }

func (e errInvalidPayload) Error() string {
	return fmt.Sprintf("payload has %d validation errors", e.count)
}

func exitCode(err error) int {
	if _, ok := err.(errInvalidPayload); ok {
		return 1
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 2
}

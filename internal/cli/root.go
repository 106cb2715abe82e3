// Package cli implements the planka command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	output    string
	logLevel  string
}

var flags rootFlags

// NewRootCmd creates the top-level "planka" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}
	root := &cobra.Command{
		Use:   "planka",
		Short: "Inspect and edit Planka boards from the command line",
		Long: "planka reads projects, boards, lists and cards from a Planka server\n" +
			"(or a local sqlite copy) and applies field edits as single updates.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "sqlite data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "backend to use: rest or sqlite (default from config)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", outputText, "output format: text, json or yaml")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newRelatedCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// systemError marks failures of the environment rather than of the request:
// unreadable files, unreachable servers.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to the process exit code. Transport failures and
// system errors exit with 2, everything else is the caller's mistake.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *systemError
	if errors.As(err, &se) || errors.Is(err, types.ErrTransport) {
		return exitSysError
	}
	return exitUserError
}

// Forescout-tools backs up and safely updates the segment tree of a
// Forescout appliance.
//
// Every update starts with a timestamped backup of the current segments.
// The operator edits a copy, the tool shows the differences against the
// backup, and nothing is sent until the operator confirms.
//
// Usage:
//
//	forescout-tools [command] [flags]
//
// Running without arguments opens the interactive menu.
// See 'forescout-tools --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opabravo/forescout-tools/internal/logging"
	"github.com/opabravo/forescout-tools/internal/version"
)

// errRunFailed is returned by commands whose failure was already shown
var errRunFailed = errors.New("run failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "forescout-tools",
	Short: "Forescout segments backup and safe update",
	Long: `Back up and safely update the segments of a Forescout appliance.

Segment updates always start from a fresh backup. The edited file is
compared with that backup and the differences are shown before anything
is sent to the appliance.

If no command is specified, the interactive menu will launch automatically.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forescout-tools %s\n", version.Full())
	},
}

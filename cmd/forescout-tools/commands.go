package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/diff"
	"github.com/opabravo/forescout-tools/internal/logging"
	"github.com/opabravo/forescout-tools/internal/ui"
	"github.com/opabravo/forescout-tools/internal/workflow"
)

// Command flags
var (
	diffJSON       bool
	snapshotsHosts bool
	snapshotsPrune int
)

func init() {
	rootCmd.AddCommand(updateSegmentsCmd)
	rootCmd.AddCommand(backupHostsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(snapshotsCmd)

	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Print the differences as JSON")
	snapshotsCmd.Flags().BoolVar(&snapshotsHosts, "hosts", false, "List host snapshots instead of segment snapshots")
	snapshotsCmd.Flags().IntVar(&snapshotsPrune, "prune", -1, "Delete all but the newest N snapshots")
}

var menuItems = []ui.MenuItem{
	{Title: "Update Segments", Description: "backup, edit, review, apply"},
	{Title: "Web API Utils", Description: "backup hosts"},
	{Title: "Exit"},
}

// runMenu shows the banner and loops on the main menu until Exit
func runMenu(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}
	a.console.Println(a.banner().Render())

	for {
		choice, err := a.console.SelectMenu(ctx, "Forescout API - Segments management", menuItems)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch choice {
		case 0:
			_, err = a.updateSegments(ctx)
		case 1:
			_, err = a.backupHosts(ctx)
		default:
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			logging.Error("Menu action failed", zap.Error(err))
			a.console.Show(workflow.LevelError, err.Error())
		}
	}
}

var updateSegmentsCmd = &cobra.Command{
	Use:   "update-segments",
	Short: "Back up, edit and safely update the segments",
	Long: `Back up the current segments, wait for an edited copy, show the
differences and update the appliance after confirmation.

The backup is written to the backups folder of the workspace before
anything else happens.`,
	Example: `  # Interactive update with the default settings file
  forescout-tools update-segments

  # Use another settings file and log requests to the console
  forescout-tools update-segments --config ./lab.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		outcome, err := a.updateSegments(cmd.Context())
		if err != nil {
			return err
		}
		return exitError(outcome)
	},
}

var backupHostsCmd = &cobra.Command{
	Use:   "backup-hosts",
	Short: "Back up the host inventory through the Web API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		outcome, err := a.backupHosts(cmd.Context())
		if err != nil {
			return err
		}
		return exitError(outcome)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <backup> <edited>",
	Short: "Show the differences between two segments files",
	Long: `Compare the "node" trees of two segments files without contacting
the appliance. List order is ignored.`,
	Example: `  forescout-tools diff backups/segments_20240101120000.json segments/edited.json
  forescout-tools diff old.json new.json --json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	var nodes [2]any
	for i, arg := range args {
		_, doc, err := workflow.LoadEditedFile(arg)
		if err != nil {
			return err
		}
		nodes[i], _ = doc.Node()
	}

	result := diff.Compute(nodes[0], nodes[1])
	if diffJSON {
		rendered, err := result.Render()
		if err != nil {
			return fmt.Errorf("failed to render differences: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDiff(result, ui.GetTerminalWidth()))
	return nil
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List or prune backups",
	Example: `  # List segment backups, oldest first
  forescout-tools snapshots

  # Keep only the ten newest host backups
  forescout-tools snapshots --hosts --prune 10`,
	Args: cobra.NoArgs,
	RunE: runSnapshots,
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store := a.segmentStore()
	if snapshotsHosts {
		store = a.hostStore()
	}

	if snapshotsPrune >= 0 {
		removed, err := store.Prune(snapshotsPrune)
		if err != nil {
			return err
		}
		for _, path := range removed {
			a.console.Show(workflow.LevelInfo, "Removed "+path)
		}
		a.console.Show(workflow.LevelSuccess, fmt.Sprintf("Removed %d snapshot(s) from %s", len(removed), store.Dir()))
		return nil
	}

	infos, err := store.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		a.console.Show(workflow.LevelInfo, "No snapshots in "+store.Dir())
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d snapshot(s) in %s:\n\n", len(infos), store.Dir())
	for _, info := range infos {
		fmt.Fprintf(out, "  %-40s %s  %8d bytes\n", info.Name, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Size)
	}
	return nil
}

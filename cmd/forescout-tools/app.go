package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/config"
	"github.com/opabravo/forescout-tools/internal/forescout"
	"github.com/opabravo/forescout-tools/internal/logging"
	"github.com/opabravo/forescout-tools/internal/snapshot"
	"github.com/opabravo/forescout-tools/internal/ui"
	"github.com/opabravo/forescout-tools/internal/version"
	"github.com/opabravo/forescout-tools/internal/workflow"
)

// Global flags
var (
	configFlag   string
	logLevelFlag string
	logFileFlag  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Settings file (default: config.yaml beside the binary, else the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Console log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", `Log file (default: forescout.log in the workspace, "-" to disable)`)
}

// app holds what every command needs once settings are loaded
type app struct {
	configPath string
	settings   *config.Settings
	workspace  config.Workspace
	console    *ui.Terminal
	executor   *forescout.Executor
}

// newApp loads the settings, prepares the workspace and starts logging
func newApp() (*app, error) {
	path, err := config.ResolvePath(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to locate settings file: %w", err)
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	ws := config.Workspace{Root: settings.WorkspaceDir(path)}
	created, err := ws.Ensure()
	if err != nil {
		return nil, err
	}

	if err := logging.Setup(logging.Options{Level: logLevelFlag, File: logFile(ws)}); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &app{
		configPath: path,
		settings:   settings,
		workspace:  ws,
		console:    ui.NewTerminal(),
	}
	for _, name := range created {
		a.console.Show(workflow.LevelInfo, fmt.Sprintf("Created %s folder in %s", name, ws.Root))
	}

	logging.Info("Starting forescout-tools",
		zap.String("version", version.Full()),
		zap.String("config", path),
		zap.String("workspace", ws.Root),
	)
	return a, nil
}

func logFile(ws config.Workspace) string {
	switch logFileFlag {
	case "":
		return filepath.Join(ws.Root, logging.DefaultLogFile)
	case "-":
		return ""
	}
	return logFileFlag
}

// require completes and validates the settings fn needs
func (a *app) require(ctx context.Context, fn config.Function) error {
	filled, err := config.Bootstrap(ctx, a.settings, fn, a.configPath, a.console)
	if err != nil {
		return fmt.Errorf("failed to complete settings: %w", err)
	}
	if len(filled) > 0 {
		a.console.Show(workflow.LevelSuccess, "Settings saved to "+a.configPath)
	}
	if err := a.settings.Validate(fn); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", a.configPath, err)
	}

	// one pacing budget per appliance, shared by both APIs
	if a.executor == nil {
		a.executor = forescout.NewExecutor(a.settings.Interval())
	}
	return nil
}

func (a *app) clientOptions() []forescout.Option {
	return []forescout.Option{
		forescout.WithHTTPClient(forescout.NewHTTPClient(a.settings.VerifyTLS)),
		forescout.WithExecutor(a.executor),
	}
}

func (a *app) segmentStore() *snapshot.Store {
	return snapshot.NewSegmentStore(a.workspace.Backups(), snapshot.WithRetention(a.settings.BackupRetention))
}

func (a *app) hostStore() *snapshot.Store {
	return snapshot.NewHostStore(a.workspace.Hosts(), snapshot.WithRetention(a.settings.BackupRetention))
}

func (a *app) banner() *ui.Header {
	return ui.Banner(version.Short(),
		ui.Param{Key: "Appliance", Value: a.settings.URL},
		ui.Param{Key: "Workspace", Value: a.workspace.Root},
		ui.Param{Key: "Config", Value: a.configPath},
	).SetWidth(a.console.Width())
}

// updateSegments runs the safe-update procedure and prints its result
func (a *app) updateSegments(ctx context.Context) (*workflow.Outcome, error) {
	if err := a.require(ctx, config.Admin); err != nil {
		return nil, err
	}

	client := forescout.NewAdminClient(forescout.Credentials{
		BaseURL:  a.settings.URL,
		Username: a.settings.AdminUsername,
		Password: a.settings.AdminPassword,
	}, a.clientOptions()...)

	outcome := workflow.NewSegmentUpdate(client, a.segmentStore(), a.console).Run(ctx)
	a.console.Println(ui.OutcomeResult("Segments update", outcome).SetWidth(a.console.Width()).Render())
	return outcome, nil
}

// backupHosts snapshots the host inventory and prints the result
func (a *app) backupHosts(ctx context.Context) (*workflow.Outcome, error) {
	if err := a.require(ctx, config.Web); err != nil {
		return nil, err
	}

	client := forescout.NewWebClient(forescout.Credentials{
		BaseURL:  a.settings.URL,
		Username: a.settings.WebUsername,
		Password: a.settings.WebPassword,
	}, a.clientOptions()...)

	outcome := workflow.NewHostsBackup(client, a.hostStore(), a.console).Run(ctx)
	a.console.Println(ui.OutcomeResult("Hosts backup", outcome).SetWidth(a.console.Width()).Render())
	return outcome, nil
}

// exitError maps an outcome to the command's error
func exitError(o *workflow.Outcome) error {
	if o.Succeeded() || o.Status == workflow.StatusCancelled {
		return nil
	}
	return errRunFailed
}

package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/forescout"
)

// HostsAPI is the part of the Web API client the hosts backup uses
type HostsAPI interface {
	Login(ctx context.Context) (bool, error)
	BackupHosts(ctx context.Context, store forescout.SnapshotWriter) (string, error)
}

// HostsBackup logs in to the Web API and snapshots the host inventory
type HostsBackup struct {
	machine

	api   HostsAPI
	store forescout.SnapshotWriter
}

// NewHostsBackup prepares a run in the Idle state
func NewHostsBackup(api HostsAPI, store forescout.SnapshotWriter, console Console) *HostsBackup {
	return &HostsBackup{
		machine: newMachine("backup-hosts", console),
		api:     api,
		store:   store,
	}
}

// Run drives the backup to Done or Failed
func (w *HostsBackup) Run(ctx context.Context) *Outcome {
	return w.run(ctx, w.step)
}

func (w *HostsBackup) step(ctx context.Context, s State) State {
	switch s {
	case Idle:
		return Authenticating

	case Authenticating:
		w.console.Show(LevelInfo, "Logging in to the Web API...")
		ok, err := w.api.Login(ctx)
		if err != nil {
			return w.fail("login failed", err)
		}
		if !ok {
			return w.fail(ReasonAuthRejected, forescout.NewAuthError(0, "the Web API refused the credentials"))
		}
		w.console.Show(LevelSuccess, "Login successful")
		return Fetching

	case Fetching:
		w.console.Show(LevelInfo, "Backing up network devices...")
		path, err := w.api.BackupHosts(ctx, w.store)
		if err != nil {
			return w.fail("fetching hosts failed", err)
		}
		w.outcome.SnapshotPath = path
		w.outcome.Status = StatusSuccess
		w.log.Info("Hosts snapshot written", zap.String("path", path))
		w.console.Show(LevelSuccess, "Backed up to: "+path)
		return Done

	default:
		return w.fail("unexpected state", fmt.Errorf("no step for %s", s))
	}
}

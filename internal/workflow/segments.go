package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/diff"
	"github.com/opabravo/forescout-tools/internal/forescout"
)

// SegmentsAPI is the part of the Admin API client the update workflow uses
type SegmentsAPI interface {
	Login(ctx context.Context) (bool, error)
	BackupSegments(ctx context.Context, store forescout.SnapshotWriter) (string, forescout.Document, error)
	UpdateSegments(ctx context.Context, node any) (*forescout.Response, error)
}

// SnapshotStore writes the pre-edit backup and reads it back for the diff
type SnapshotStore interface {
	forescout.SnapshotWriter
	Read(path string) (forescout.Document, error)
}

// Prompts shown by the update workflow
const (
	EditPrompt    = "Path of the edited segments file (drag it here)"
	ConfirmPrompt = "Apply these changes to the appliance? (y/N)"
)

// SegmentUpdate is one run of the safe-update procedure
type SegmentUpdate struct {
	machine

	api   SegmentsAPI
	store SnapshotStore

	snapshotPath string
	editedPath   string
	edited       any
	result       *diff.Result
}

// NewSegmentUpdate prepares a run in the Idle state
func NewSegmentUpdate(api SegmentsAPI, store SnapshotStore, console Console) *SegmentUpdate {
	return &SegmentUpdate{
		machine: newMachine("update-segments", console),
		api:     api,
		store:   store,
	}
}

// Run drives the procedure to Done or Failed
func (w *SegmentUpdate) Run(ctx context.Context) *Outcome {
	return w.run(ctx, w.step)
}

func (w *SegmentUpdate) step(ctx context.Context, s State) State {
	switch s {
	case Idle:
		return Authenticating
	case Authenticating:
		return w.authenticate(ctx)
	case Fetching:
		return w.fetch(ctx)
	case AwaitingEdit:
		return w.awaitEdit(ctx)
	case Comparing:
		return w.compare()
	case AwaitingConfirmation:
		return w.confirm(ctx)
	case Updating:
		return w.update(ctx)
	default:
		return w.fail("unexpected state", fmt.Errorf("no step for %s", s))
	}
}

func (w *SegmentUpdate) authenticate(ctx context.Context) State {
	w.console.Show(LevelInfo, "Logging in to the Admin API...")

	ok, err := w.api.Login(ctx)
	if err != nil {
		return w.fail("login failed", err)
	}
	if !ok {
		return w.fail(ReasonAuthRejected, forescout.NewAuthError(0, "the Admin API refused the credentials"))
	}

	w.console.Show(LevelSuccess, "Login successful")
	return Fetching
}

func (w *SegmentUpdate) fetch(ctx context.Context) State {
	w.console.Show(LevelInfo, "Backing up segments...")

	path, _, err := w.api.BackupSegments(ctx, w.store)
	if err != nil {
		return w.fail("fetching segments failed", err)
	}

	w.snapshotPath = path
	w.outcome.SnapshotPath = path
	w.log.Info("Segments snapshot written", zap.String("path", path))
	w.console.Show(LevelSuccess, "Backed up to: "+path)
	w.console.Show(LevelInfo, "Edit a copy of this file, then enter the path of the edited file.")
	return AwaitingEdit
}

// awaitEdit loops on itself until the operator gives a usable file
func (w *SegmentUpdate) awaitEdit(ctx context.Context) State {
	input, err := w.console.Prompt(ctx, EditPrompt)
	if err != nil {
		return w.fail("no edited file given", err)
	}

	path, doc, err := LoadEditedFile(input)
	if err != nil {
		w.log.Debug("Edited file rejected", zap.String("input", input), zap.Error(err))
		w.console.Show(LevelWarning, capitalize(err.Error()))
		return AwaitingEdit
	}

	node, _ := doc.Node()
	w.editedPath = path
	w.edited = node
	return Comparing
}

// compare diffs against the snapshot this run wrote, read back from disk
func (w *SegmentUpdate) compare() State {
	original, err := w.store.Read(w.snapshotPath)
	if err != nil {
		return w.fail("reading the backup failed", err)
	}
	node, err := original.Node()
	if err != nil {
		return w.fail("reading the backup failed", err)
	}

	w.result = diff.Compute(node, w.edited)
	w.outcome.Diff = w.result
	w.log.Info("Segments compared",
		zap.String("original", w.snapshotPath),
		zap.String("edited", w.editedPath),
		zap.String("summary", w.result.Summary()),
	)

	if viewer, ok := w.console.(DiffViewer); ok {
		viewer.ShowDiff(w.result)
		return AwaitingConfirmation
	}

	rendered, err := w.result.Render()
	if err != nil {
		return w.fail("rendering the differences failed", err)
	}
	w.console.Show(LevelWarning, "Segments differences ("+w.result.Summary()+"):\n---\n"+rendered+"\n---")
	return AwaitingConfirmation
}

func (w *SegmentUpdate) confirm(ctx context.Context) State {
	answer, err := w.console.Prompt(ctx, ConfirmPrompt)
	if err != nil {
		return w.fail("no confirmation given", err)
	}

	if !IsAffirmative(answer) {
		w.outcome.Status = StatusCancelled
		w.console.Show(LevelInfo, "Update cancelled, the appliance was not changed")
		return Done
	}
	return Updating
}

func (w *SegmentUpdate) update(ctx context.Context) State {
	w.console.Show(LevelInfo, "Updating segments...")

	resp, err := w.api.UpdateSegments(ctx, w.edited)
	if err != nil {
		return w.fail("updating segments failed", err)
	}
	w.outcome.Response = resp

	if resp.OK() {
		w.outcome.Status = StatusSuccess
		w.console.Show(LevelSuccess, "Segments updated successfully")
		return Done
	}

	w.outcome.Status = rejectedStatus(resp)
	w.outcome.Err = forescout.NewUpdateRejectedError(resp.StatusCode, resp.Body)
	w.console.Show(LevelError, "Update failure: "+resp.Text())
	w.console.Show(LevelInfo, "The backup is unchanged: "+w.snapshotPath)
	return Done
}

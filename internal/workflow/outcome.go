package workflow

import (
	"fmt"

	"github.com/opabravo/forescout-tools/internal/diff"
	"github.com/opabravo/forescout-tools/internal/forescout"
)

const (
	// StatusSuccess is the status of a run whose final call was accepted
	StatusSuccess = "success"

	// StatusCancelled is the status of a run the operator declined to apply
	StatusCancelled = "cancelled by operator"

	// ReasonAuthRejected is the status of a run whose login was refused
	ReasonAuthRejected = "authentication rejected"
)

// Outcome is the result of a workflow run
type Outcome struct {
	RunID string

	// State is Done or Failed
	State State

	// Status is StatusSuccess, StatusCancelled, "failed: <server body>" or,
	// for Failed runs, the reason
	Status string

	SnapshotPath string
	Diff         *diff.Result
	Response     *forescout.Response

	// Err is set for Failed runs and for rejected updates
	Err error
}

// Succeeded reports whether the run reached its goal
func (o *Outcome) Succeeded() bool {
	return o.State == Done && o.Status == StatusSuccess
}

func (o *Outcome) String() string {
	if o.State == Failed && o.Err != nil && o.Status != ReasonAuthRejected {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status
}

func rejectedStatus(resp *forescout.Response) string {
	return "failed: " + resp.Text()
}

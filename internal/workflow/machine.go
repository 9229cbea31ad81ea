package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/logging"
)

// machine holds the bookkeeping shared by all workflows: the current
// state, the visited states and the outcome.
type machine struct {
	name    string
	runID   string
	console Console
	log     *zap.Logger

	state   State
	history []State
	outcome *Outcome
}

func newMachine(name string, console Console) machine {
	runID := uuid.NewString()
	return machine{
		name:    name,
		runID:   runID,
		console: console,
		log:     logging.With(zap.String("workflow", name), zap.String("run_id", runID)),
		state:   Idle,
		history: []State{Idle},
		outcome: &Outcome{RunID: runID},
	}
}

// run calls step until a terminal state is reached
func (m *machine) run(ctx context.Context, step func(context.Context, State) State) *Outcome {
	m.log.Info("Workflow started")

	for !m.state.Terminal() {
		var next State
		if err := ctx.Err(); err != nil {
			next = m.fail("interrupted", err)
		} else {
			next = step(ctx, m.state)
		}
		m.transition(next)
	}

	m.outcome.State = m.state
	m.log.Info("Workflow finished",
		zap.Stringer("state", m.state),
		zap.String("status", m.outcome.Status),
	)
	return m.outcome
}

func (m *machine) transition(next State) {
	if next != m.state || next == AwaitingEdit {
		m.log.Debug("State changed", zap.Stringer("from", m.state), zap.Stringer("state", next))
	}
	m.state = next
	m.history = append(m.history, next)
}

// fail records reason and err as the outcome and returns Failed
func (m *machine) fail(reason string, err error) State {
	m.outcome.Status = reason
	m.outcome.Err = err
	m.log.Warn("Workflow failed", zap.String("reason", reason), zap.Error(err))

	if err != nil && reason != ReasonAuthRejected {
		m.console.Show(LevelError, fmt.Sprintf("%s: %v", reason, err))
	} else {
		m.console.Show(LevelError, capitalize(reason))
	}
	return Failed
}

// RunID identifies the run in logs
func (m *machine) RunID() string {
	return m.runID
}

// State returns the current state
func (m *machine) State() State {
	return m.state
}

// History returns every state visited so far, starting with Idle
func (m *machine) History() []State {
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// Package workflow drives the operator-facing procedures of the tool.
//
// SegmentUpdate is the safe-update procedure for segments:
//
//	Idle → Authenticating → Fetching → AwaitingEdit → Comparing →
//	AwaitingConfirmation → Updating → Done
//
// with Failed reachable from every step. Each state is handled by one step
// method that returns the next state. Operator I/O goes through the Console
// interface so the whole procedure runs in tests without a terminal.
//
// HostsBackup is the shorter Web API procedure: log in, fetch the host
// inventory and write it as a snapshot.
package workflow

// Package ui provides the terminal front end of forescout-tools.
//
// Rendering uses Lipgloss; the main menu is a small Bubble Tea program.
// Components follow a "run once and print" pattern:
//
//   - Header: banner with the appliance, workspace and config file
//   - Terminal: line-based console used by the workflows for prompts,
//     messages and diff display
//   - Result: success/failure/warning boxes for finished runs
//   - MenuModel: arrow-key menu, replaced by a numbered prompt when
//     stdin or stdout is not a terminal
//
// Logging is controlled separately (see package logging). With no log
// level set, zap writes nothing to the console and only this package's
// output is shown.
package ui

// Package viz renders simulation runs in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: preset and vehicle picker that launches a live run
//   - [Model]: live view stepping a [sim.Engine] once per frame
//   - [Canvas]: Braille-based pixel canvas for the top-down trail view
//
// It also renders static reports for the CLI with lipgloss and asciigraph.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset and run again
//	T     - Cycle color themes
//	?     - Show help overlay
package viz

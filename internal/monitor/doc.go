// Package monitor implements the sysdash TUI dashboard.
//
// The dashboard shows live telemetry pushed by the producer: resource
// gauges, CPU/memory/network charts over a rolling window, the two
// top-process tables, host information, an alert feed, and the installed
// application inventory with uninstall and cache-clean actions.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: owns one State value holding everything the dashboard shows
//   - Update: the single writer of State, one message at a time
//   - View: pure render functions, one per screen region
//
// # Message Flow
//
//  1. Init connects the event stream and fetches host info and the app list
//  2. The transport listener delivers events through Bridge, which turns
//     each one into a message on the program queue (arrival order, no
//     coalescing)
//  3. SnapshotMsg is normalized, pushed into History, checked against the
//     local alert rules, and becomes the current snapshot
//  4. Action results (kill, uninstall, cache clean) open a result modal
//
// # In-flight guard
//
// Inflight refuses to issue an action whose key is still pending, so a
// repeated key press cannot send a duplicate request. Keys are released
// when the matching result message arrives.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	1 / 2       - Overview / Apps screen
//	tab         - Cycle focus between the process tables and alert feed
//	j/k, ↑/↓    - Move selection
//	x           - Kill the selected process
//	d           - Dismiss the selected alert
//	r           - Reconnect (overview) / reload apps (apps)
//	/           - Filter apps
//	u, c        - Uninstall / clean cache of the selected app
//	?           - Toggle help overlay
package monitor

// Package ui is the Bubble Tea terminal front end.
//
// The UI holds no domain state. Every frame renders a flow.Snapshot and every
// key becomes a call on flow.Controller. Calls that reach the network run as
// tea.Cmds and report back with actionDoneMsg; the controller's change
// notifications arrive through a coalescing channel read by waitForChange,
// so a burst of stream events produces one redraw.
//
// Layers are drawn and consulted top-down: help, the blocking notice, the
// post or schedule editor modal, then the current screen. Form screens
// (login, the brand steps and the theme proposal) keep a small textinput
// form that is rebuilt whenever the screen or the staged draft changes.
//
// Files:
//
//   - app.go: model, update loop, Run
//   - input_handlers.go: per-screen key handling and form plumbing
//   - screens.go: per-screen rendering and list helpers
//   - header.go: header, command bar, status line
//   - modal.go: post and schedule editors, notices
//   - form.go: minimal multi-field form
//   - theme.go: color palettes
package ui

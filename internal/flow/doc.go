// Package flow is the application context of the terminal client. A
// Controller owns the screen navigator, the domain store, the staged
// drafts, the open modal and the generation streams, and is the only code
// that mutates any of them.
//
// # Screens
//
// Navigation follows a fixed transition table (see CanTransition). Screens
// that render a selected theme redirect to dashboard when the selection
// does not resolve in the store; the redirect is silent.
//
// # Remote Operations
//
// Creating, updating and deleting brands and themes is two-phase: the
// request is sent first and the store changes only when it succeeds. A
// failure leaves the store as it was and sets a Notice. One remote
// operation runs at a time (ErrBusy). A result that arrives after logout
// is dropped with ErrSessionChanged.
//
// # Generation Streams
//
// Theme options, image regeneration and post generation each run on their
// own SSE connection, at most one per kind. Starting a kind again closes
// the previous connection, and leaving the screen that shows a stream
// closes it. Events are applied in arrival order on the pump goroutine
// under the controller lock; events from a closed handle are dropped.
// Streamed posts are committed to their theme as they arrive and survive
// a later failure.
//
// # Observing
//
// Snapshot returns a deep copy for rendering. Subscribe registers a
// callback run after each change, which the TUI uses to schedule a
// redraw.
package flow

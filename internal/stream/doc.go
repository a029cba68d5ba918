// Package stream consumes the server-sent event streams the backend uses
// for theme and post generation.
//
// A stream is a sequence of "data: <json>" frames separated by blank lines.
// Reader splits the body into payloads and Decode turns each payload into
// one of four Event types. Unknown event types are rejected as a
// *ProtocolError instead of being skipped.
//
// Registry enforces that only one stream of each Kind is open at a time.
// Starting a generation returns a Generation handle; a later Start of the
// same kind closes the earlier handle, and consumers drop events from any
// handle that is no longer Current.
package stream

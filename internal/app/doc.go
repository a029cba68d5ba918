// Package app is the composition root for brandloom.
//
// Run loads configuration (config file, then .env, then the environment,
// then command line overrides), opens the JSON log file, builds the HTTP
// client for the generation backend, restores nothing itself and hands a
// flow.Controller to the terminal UI. The controller restores any stored
// session once the UI is up, so a slow backend never delays the first frame.
//
// Fatal errors returned from Run:
//   - unreadable or invalid config
//   - a log file that cannot be created
//   - an unusable backend URL
//
// Everything after startup (failed requests, broken streams, an unreadable
// session file) is reported in the UI and logged, and the program keeps
// running.
package app

// Package config loads brandloom's runtime settings.
//
// # Resolution Order
//
// Each setting is taken from the first source that provides a non-empty
// value:
//
//  1. the process environment (BRANDLOOM_API_URL, BRANDLOOM_REQUEST_TIMEOUT)
//  2. a .env file in the working directory
//  3. the TOML config file (~/.config/brandloom/config.toml by default)
//  4. built-in defaults
//
// A missing config file or .env file is not an error. A malformed one is.
//
// # Default Values
//
//   - Config file: ~/.config/brandloom/config.toml
//   - API URL: http://localhost:8000
//   - Session file: ~/.config/brandloom/session.toml
//   - Log file: ~/.local/state/brandloom/brandloom.log
//   - Request timeout: 30s (streams are not bound by it)
//
// # TOML Format
//
//	api_url = "https://brands.example.com"
//	session_path = "~/.config/brandloom/session.toml"
//	log_path = "~/.local/state/brandloom/brandloom.log"
//	request_timeout = "20s"
//
// Every field is optional. Paths get tilde expansion and are made absolute.
package config

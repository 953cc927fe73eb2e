package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing credential, invalid value)
	ExitSourceError = 3 // Every citation source failed (network, API, malformed data)
)

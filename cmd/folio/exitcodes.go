package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, unknown key)
	ExitDataError   = 3 // Data error (entry not found, form validation failure)
	ExitFetchError  = 4 // Bibliography, license or form endpoint unreachable
)

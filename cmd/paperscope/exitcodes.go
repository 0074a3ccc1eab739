package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid values)
	ExitNoResults   = 3 // Feed or search returned nothing
	ExitUpstream    = 4 // A collaborator (feed, embedder, index, store) failed
)

package hostsim

import "time"

// Defaults for the command line.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultHero    = "panda"
	DefaultFamily  = "small"
	DefaultCycles  = 3
	DefaultTimeout = 10 * time.Second
)

// PolicyAtEnd is the reload policy that asks the host to come back after the last entry.
const PolicyAtEnd = "atEnd"

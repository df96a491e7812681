package hostsim

import "time"

// Config holds configuration for a host simulation run
type Config struct {
	BaseURL string        // Base URL of the widget provider
	Hero    string        // Selected character id or name
	Family  string        // Widget family to render
	Cycles  int           // Number of timelines to request
	Timeout time.Duration // HTTP request timeout
	Start   time.Time     // Simulated start time; zero uses the server clock
	Verbose bool          // Log every presented entry
}

// Stats holds simulation statistics
type Stats struct {
	Timelines        int
	EntriesPresented int
	EmptyTimelines   int
	Step             time.Duration
	SimulatedStart   time.Time
	SimulatedEnd     time.Time
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// serverStats is the subset of /stats the simulator reads
type serverStats struct {
	StepMs int64 `json:"stepMs"`
}

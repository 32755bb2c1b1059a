package prep

import "time"

// Config holds configuration for a snapshot build.
type Config struct {
	DataDir       string // directory of per-league/season CSV files
	SnapshotPath  string // gzip CSV to write
	LogFile       string // log file teed next to stdout
	Workers       int    // resolution workers
	QueueSize     int    // resolution queue capacity
	Threshold     int    // approximate match threshold
	ProgressEvery int    // log every n-th record
	TopUnresolved int    // how many unresolved names to report
	Verbose       bool   // log every progress sample at info level
}

// Stats holds build statistics.
type Stats struct {
	Records    int
	Distinct   int
	Resolved   int
	Unresolved int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

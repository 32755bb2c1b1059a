package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/mercato/internal/domain/matcher"
	"github.com/okian/mercato/internal/prep"
)

// Default configuration constants.
const (
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultQueueSize     = 10000
	defaultProgressEvery = 100
	defaultTopUnresolved = 20
)

func main() {
	var (
		dataDir    = flag.String("data", "data", "Directory of source CSV files")
		out        = flag.String("out", "data/transfers.csv.gz", "Snapshot to write")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of resolution workers")
		queueSize  = flag.Int("queue", defaultQueueSize, "Resolution queue capacity")
		threshold  = flag.Int("threshold", matcher.DefaultThreshold, "Minimum similarity for approximate matches (0-100)")
		progress   = flag.Int("progress", defaultProgressEvery, "Log every n-th record")
		unresolved = flag.Int("unresolved", defaultTopUnresolved, "Report the n most frequent unresolved names")
		logFile    = flag.String("log", "", "Log file (default: prep_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log progress samples at info level")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		prep.ShowHelp()
		return
	}

	closer, err := prep.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &prep.Config{
		DataDir:       *dataDir,
		SnapshotPath:  *out,
		LogFile:       *logFile,
		Workers:       *workers,
		QueueSize:     *queueSize,
		Threshold:     *threshold,
		ProgressEvery: *progress,
		TopUnresolved: *unresolved,
		Verbose:       *verbose,
	}

	if _, err := prep.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Snapshot build failed: " + err.Error() + "\n")
		stop()
		_ = closer.Close()
		os.Exit(1)
	}
}
